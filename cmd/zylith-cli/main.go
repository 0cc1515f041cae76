// Zylith CLI - command-line interface for the shielded CLMM wallet.
package main

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/zylith/core/internal/config"
	"github.com/zylith/core/internal/field"
	"github.com/zylith/core/internal/sdk"
	"github.com/zylith/core/internal/vault"
)

const version = "0.1.0"

const defaultVaultPath = "./zylith-vault.json"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("zylith-cli v%s\n", version)

	case "help":
		printUsage()

	case "status":
		cmdStatus()

	case "balance":
		if len(os.Args) < 3 {
			fmt.Println("Usage: zylith-cli balance <token>")
			os.Exit(1)
		}
		cmdBalance(os.Args[2])

	case "deposit":
		if len(os.Args) < 4 {
			fmt.Println("Usage: zylith-cli deposit <token> <amount>")
			os.Exit(1)
		}
		cmdDeposit(os.Args[2], os.Args[3])

	case "withdraw":
		if len(os.Args) < 3 {
			fmt.Println("Usage: zylith-cli withdraw <recipient>")
			os.Exit(1)
		}
		cmdWithdraw(os.Args[2])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("zylith-cli - command-line interface for the shielded CLMM wallet")
	fmt.Println()
	fmt.Println("Usage: zylith-cli <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  version              Show version information")
	fmt.Println("  help                 Show this help message")
	fmt.Println("  status               Show ASP status")
	fmt.Println("  balance <token>      Show vault balance for a token")
	fmt.Println("  deposit <token> <amount>  Deposit amount of token into the vault")
	fmt.Println("  withdraw <recipient> Withdraw the oldest unspent note to recipient")
	fmt.Println()
	fmt.Println("Configuration via environment:")
	fmt.Println("  ZYLITH_ASP_URL        ASP base URL (default http://127.0.0.1:8585)")
	fmt.Println("  ZYLITH_VAULT_PATH     vault file path (default ./zylith-vault.json)")
	fmt.Println("  ZYLITH_VAULT_PASSPHRASE  vault passphrase")
}

func aspURL() string {
	if v := os.Getenv("ZYLITH_ASP_URL"); v != "" {
		return v
	}
	return config.DefaultConfig().ASPURL
}

func vaultPath() string {
	if v := os.Getenv("ZYLITH_VAULT_PATH"); v != "" {
		return v
	}
	return defaultVaultPath
}

func passphrase() string {
	return os.Getenv("ZYLITH_VAULT_PASSPHRASE")
}

func newClient(ctx context.Context) (*sdk.Client, error) {
	client, err := sdk.New(sdk.Config{
		ASPBaseURL: aspURL(),
		Mode:       sdk.ModeASP,
		Store:      vault.NewFileStore(vaultPath()),
	})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx, passphrase()); err != nil {
		return nil, err
	}
	return client, nil
}

func cmdStatus() {
	ctx := context.Background()
	client, err := newClient(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	healthy, ver, leafCount, root, err := client.Status(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("ASP Status:")
	fmt.Printf("  Healthy:    %v\n", healthy)
	fmt.Printf("  Version:    %s\n", ver)
	fmt.Printf("  Leaf count: %d\n", leafCount)
	fmt.Printf("  Root:       %s\n", root)
}

func cmdBalance(tokenStr string) {
	ctx := context.Background()
	client, err := newClient(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	token, err := field.FromDecimalString(tokenStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid token: %v\n", err)
		os.Exit(1)
	}
	balance, err := client.GetBalance(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Balance: %s\n", balance.String())
}

func cmdDeposit(tokenStr, amountStr string) {
	ctx := context.Background()
	client, err := newClient(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	token, err := field.FromDecimalString(tokenStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid token: %v\n", err)
		os.Exit(1)
	}
	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q\n", amountStr)
		os.Exit(1)
	}
	result, err := client.Deposit(ctx, token, amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deposited. Leaf index: %d  Root: %s\n", result.LeafIndex, result.Root)
}

func cmdWithdraw(recipient string) {
	ctx := context.Background()
	client, err := newClient(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	note := client.OldestWithdrawableNote()
	if note == nil {
		fmt.Println("No confirmed, unspent notes to withdraw.")
		os.Exit(1)
	}

	result, err := client.Withdraw(ctx, note, recipient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Withdrawn. Tx: %s  Nullifier: %s\n", result.TxHash, result.NullifierHash)
}
