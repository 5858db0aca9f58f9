package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL   string
	timeout   time.Duration
	ownerKind string
	ownerID   int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gowallet-cli",
		Short: "GoWallet CLI tool",
		Long:  `A command line interface for interacting with the GoWallet API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&ownerKind, "owner-kind", "user", "Owner kind")
	rootCmd.PersistentFlags().Int64Var(&ownerID, "owner-id", 0, "Owner ID")

	// Wallet commands
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	var initialAmount string
	openCmd := &cobra.Command{
		Use:   "open [currency]",
		Short: "Open a wallet for the owner",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{"currency": args[0]}
			if initialAmount != "" {
				body["initial_amount"] = initialAmount
			}
			doRequest(http.MethodPost, ownerPath("/wallets"), body)
		},
	}
	openCmd.Flags().StringVar(&initialAmount, "initial", "", "Initial income amount")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the owner's wallets",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, ownerPath("/wallets"), nil)
		},
	}

	incomeCmd := &cobra.Command{
		Use:   "income [currency] [amount]",
		Short: "Record an income transaction",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, ownerPath("/wallets/"+args[0]+"/income"), map[string]any{"amount": args[1]})
		},
	}

	outcomeCmd := &cobra.Command{
		Use:   "outcome [currency] [amount]",
		Short: "Record an outcome transaction",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, ownerPath("/wallets/"+args[0]+"/outcome"), map[string]any{"amount": args[1]})
		},
	}

	totalCmd := &cobra.Command{
		Use:   "total [currency]",
		Short: "Show the wallet total",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, ownerPath("/wallets/"+args[0]+"/total"), nil)
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile cached totals against the transaction ledger",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/wallets/reconciliation", nil)
		},
	}

	walletCmd.AddCommand(openCmd, listCmd, incomeCmd, outcomeCmd, totalCmd, reconcileCmd)
	rootCmd.AddCommand(walletCmd)

	// Transaction commands
	transactionCmd := &cobra.Command{
		Use:   "transaction",
		Short: "Transaction operations",
	}

	getCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/transactions/"+args[0], nil)
		},
	}

	noteCmd := &cobra.Command{
		Use:   "note [id] [note]",
		Short: "Attach a note to a transaction",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPatch, "/api/v1/transactions/"+args[0]+"/note", map[string]any{"note": args[1]})
		},
	}

	transactionCmd.AddCommand(getCmd, noteCmd)
	rootCmd.AddCommand(transactionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func ownerPath(suffix string) string {
	return fmt.Sprintf("/api/v1/owners/%s/%d%s", ownerKind, ownerID, suffix)
}

func doRequest(method, path string, body map[string]any) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
		fmt.Println(string(respBody))
		return
	}
	fmt.Println(pretty.String())
}
