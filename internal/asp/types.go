package asp

// Wire request/response bodies for the ASP REST surface. Field
// elements, token addresses included, are decimal strings; Merkle roots
// are 0x-prefixed hex;
// tick values are signed integers — the circuit-internal offset form never
// appears here. JSON tags are snake_case to match the wire, Go field names
// stay idiomatic.

// noteWire is a fully-specified shielded note as it crosses the wire: the
// caller always supplies the amount alongside the secret/nullifier, since
// on-chain pricing (what the amount *should* be) is decided by the pool,
// not here — the circuit constrains consistency, not correctness of price.
type noteWire struct {
	Secret     string `json:"secret"`
	Nullifier  string `json:"nullifier"`
	AmountLow  string `json:"amount_low"`
	AmountHigh string `json:"amount_high"`
	Token      string `json:"token"`
	LeafIndex  uint64 `json:"leaf_index"`
}

// positionNoteWire describes an existing position note being spent (e.g. by
// burn): ticks are signed, matching the rest of the wire surface — the
// circuit-internal offset form is never exposed here.
type positionNoteWire struct {
	Secret    string `json:"secret"`
	Nullifier string `json:"nullifier"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
	Liquidity string `json:"liquidity"`
	LeafIndex uint64 `json:"leaf_index"`
}

type depositRequest struct {
	Commitment string `json:"commitment"`
}

type depositResponse struct {
	Status    string   `json:"status"`
	LeafIndex uint64   `json:"leaf_index"`
	Calldata  []string `json:"calldata"`
	Root      string   `json:"root"`
}

type withdrawRequest struct {
	Secret     string `json:"secret"`
	Nullifier  string `json:"nullifier"`
	AmountLow  string `json:"amount_low"`
	AmountHigh string `json:"amount_high"`
	Token      string `json:"token"`
	Recipient  string `json:"recipient"`
	LeafIndex  uint64 `json:"leaf_index"`
}

type withdrawResponse struct {
	Status        string `json:"status"`
	TxHash        string `json:"tx_hash"`
	NullifierHash string `json:"nullifier_hash"`
}

type swapParamsWire struct {
	TokenIn  string `json:"token_in"`
	TokenOut string `json:"token_out"`
	AmountIn string `json:"amount_in"`
}

type swapRequest struct {
	PoolKey        string         `json:"pool_key"`
	InputNote      noteWire       `json:"input_note"`
	SwapParams     swapParamsWire `json:"swap_params"`
	OutputNote     noteWire       `json:"output_note"`
	ChangeNote     noteWire       `json:"change_note"`
	SqrtPriceLimit string         `json:"sqrt_price_limit"`
}

type swapResponse struct {
	Status           string `json:"status"`
	TxHash           string `json:"tx_hash"`
	NewCommitment    string `json:"new_commitment"`
	ChangeCommitment string `json:"change_commitment"`
}

type mintRequest struct {
	PoolKey     string           `json:"pool_key"`
	InputNote0  noteWire         `json:"input_note_0"`
	InputNote1  noteWire         `json:"input_note_1"`
	Position    positionNoteWire `json:"position"`
	Amount0     string           `json:"amount_0"`
	Amount1     string           `json:"amount_1"`
	ChangeNote0 noteWire         `json:"change_note_0"`
	ChangeNote1 noteWire         `json:"change_note_1"`
	Liquidity   string           `json:"liquidity"`
	TickLower   int32            `json:"tick_lower"`
	TickUpper   int32            `json:"tick_upper"`
}

type mintResponse struct {
	Status             string `json:"status"`
	TxHash             string `json:"tx_hash"`
	PositionCommitment string `json:"position_commitment"`
	ChangeCommitment0  string `json:"change_commitment_0"`
	ChangeCommitment1  string `json:"change_commitment_1"`
}

type burnRequest struct {
	PoolKey      string           `json:"pool_key"`
	PositionNote positionNoteWire `json:"position_note"`
	OutputNote0  noteWire         `json:"output_note_0"`
	OutputNote1  noteWire         `json:"output_note_1"`
	Liquidity    string           `json:"liquidity"`
}

type burnResponse struct {
	Status         string `json:"status"`
	TxHash         string `json:"tx_hash"`
	NewCommitment0 string `json:"new_commitment_0"`
	NewCommitment1 string `json:"new_commitment_1"`
}

type treeRootResponse struct {
	Root      string `json:"root"`
	LeafCount uint64 `json:"leaf_count"`
}

type treePathResponse struct {
	LeafIndex    uint64   `json:"leaf_index"`
	Commitment   string   `json:"commitment"`
	PathElements []string `json:"path_elements"`
	PathIndices  []int    `json:"path_indices"`
	Root         string   `json:"root"`
}

type nullifierStatusResponse struct {
	NullifierHash string  `json:"nullifier_hash"`
	Spent         bool    `json:"spent"`
	CircuitType   *string `json:"circuit_type"`
	TxHash        *string `json:"tx_hash"`
}

type statusTree struct {
	LeafCount uint64 `json:"leaf_count"`
	Root      string `json:"root"`
}

type statusSync struct {
	LastSyncedBlock uint64 `json:"last_synced_block"`
}

type statusContracts struct {
	Coordinator string `json:"coordinator"`
	Pool        string `json:"pool"`
}

type statusResponse struct {
	Healthy   bool            `json:"healthy"`
	Version   string          `json:"version"`
	Tree      statusTree      `json:"tree"`
	Sync      statusSync      `json:"sync"`
	Contracts statusContracts `json:"contracts"`
}

type syncCommitmentsRequest struct {
	Commitments []string `json:"commitments"`
}

type syncCommitmentEntry struct {
	Commitment string  `json:"commitment"`
	LeafIndex  *uint64 `json:"leaf_index"`
}

type syncCommitmentsResponse struct {
	Commitments []syncCommitmentEntry `json:"commitments"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
