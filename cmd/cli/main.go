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
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cashup-cli",
		Short: "Cashup CLI tool",
		Long:  `A command line interface for interacting with the Cashup API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Cashup API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Cash-up commands
	cashupCmd := &cobra.Command{
		Use:   "cashup",
		Short: "Cash-up operations",
	}

	createCmd := &cobra.Command{
		Use:   "create [date]",
		Short: "Create a draft cash-up for a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			createCashUp(args[0])
		},
	}

	getCmd := &cobra.Command{
		Use:   "get [date]",
		Short: "Show a cash-up by date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/cashups/" + args[0])
		},
	}

	reconciliationCmd := &cobra.Command{
		Use:   "reconciliation [date]",
		Short: "Show the reconciliation rows for a date",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/cashups/" + args[0] + "/reconciliation")
		},
	}

	finalizeCmd := &cobra.Command{
		Use:   "finalize [date]",
		Short: "Finalize a draft cash-up",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			finalizeCashUp(args[0])
		},
	}

	cashupCmd.AddCommand(createCmd, getCmd, reconciliationCmd, finalizeCmd)
	rootCmd.AddCommand(cashupCmd)

	// Report commands
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Report operations",
	}

	var metric, granularity, start, end string
	consolidatedCmd := &cobra.Command{
		Use:   "consolidated",
		Short: "Show the consolidated weekly or monthly report",
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/reports/consolidated?metric=%s&granularity=%s&start=%s&end=%s",
				metric, granularity, start, end)
			getJSON(path)
		},
	}
	consolidatedCmd.Flags().StringVar(&metric, "metric", "revenue", "Metric to report on")
	consolidatedCmd.Flags().StringVar(&granularity, "granularity", "weekly", "weekly or monthly")
	consolidatedCmd.Flags().StringVar(&start, "start", "", "Range start (YYYY-MM-DD)")
	consolidatedCmd.Flags().StringVar(&end, "end", "", "Range end (YYYY-MM-DD)")

	reportCmd.AddCommand(consolidatedCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createCashUp(date string) {
	body, _ := json.Marshal(map[string]string{"date": date})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/cashups", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func finalizeCashUp(date string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/cashups/"+date+"/finalize", "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
