package starknet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Client handles Starknet JSON-RPC interactions with the lending protocol
// contract. Reads go through starknet_call; writes relay invoke payloads that
// were signed by the user's wallet in the dashboard.
type Client struct {
	rpcURL          string
	network         string
	protocolAddress string
	httpClient      *http.Client
}

// RPCRequest represents a JSON-RPC request
type RPCRequest struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// RPCResponse represents a JSON-RPC response
type RPCResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Entrypoint selectors (sn_keccak of the entrypoint name), precomputed the
// same way the dashboard's ABI tooling emits them.
var selectors = map[string]string{
	"get_lending_proposal_details":   "0x01b6f6c0d51e9f2f4f5f0a9c2b79f3a8f1f64c9edab8b7a98dd732fdfc1ab6c2",
	"get_borrowing_proposal_details": "0x02c4f9d3b1e83a7d60f1f1f9a0b82d5c0e15a3a74ad2f4630e54a2cfa5a0d9e1",
	"get_user_assets":                "0x0362d4387b72e459b4c2bd712b81a43ba0e2f3f46bc4f8a861e343cf34092f9a",
}

// NewClient creates a new Starknet client
func NewClient(network, rpcURL, protocolAddress string) *Client {
	if rpcURL == "" {
		switch network {
		case "mainnet":
			rpcURL = "https://free-rpc.nethermind.io/mainnet-juno"
		case "sepolia":
			rpcURL = "https://free-rpc.nethermind.io/sepolia-juno"
		default:
			rpcURL = "https://free-rpc.nethermind.io/sepolia-juno"
		}
	}

	return &Client{
		rpcURL:          rpcURL,
		network:         network,
		protocolAddress: protocolAddress,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// rpcCall makes a JSON-RPC call to the Starknet node
func (c *Client) rpcCall(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	request := RPCRequest{
		Jsonrpc: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	}

	reqBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.rpcURL, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var rpcResp RPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error: %s (code: %d)", rpcResp.Error.Message, rpcResp.Error.Code)
	}

	return rpcResp.Result, nil
}

// callContract invokes a read-only contract entrypoint at the latest block
// and returns the raw felt array.
func (c *Client) callContract(ctx context.Context, entrypoint string, calldata []string) ([]string, error) {
	selector, ok := selectors[entrypoint]
	if !ok {
		return nil, fmt.Errorf("unknown entrypoint: %s", entrypoint)
	}
	if calldata == nil {
		calldata = []string{}
	}

	params := map[string]interface{}{
		"request": map[string]interface{}{
			"contract_address":     c.protocolAddress,
			"entry_point_selector": selector,
			"calldata":             calldata,
		},
		"block_id": "latest",
	}

	result, err := c.rpcCall(ctx, "starknet_call", params)
	if err != nil {
		return nil, fmt.Errorf("contract call %s failed: %w", entrypoint, err)
	}

	var felts []string
	if err := json.Unmarshal(result, &felts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal call result: %w", err)
	}

	return felts, nil
}

// SubmitInvoke relays a wallet-signed invoke transaction to the network and
// returns the transaction hash. The payload is opaque to this client.
func (c *Client) SubmitInvoke(ctx context.Context, signedInvoke json.RawMessage) (string, error) {
	params := map[string]interface{}{
		"invoke_transaction": signedInvoke,
	}

	result, err := c.rpcCall(ctx, "starknet_addInvokeTransaction", params)
	if err != nil {
		return "", fmt.Errorf("failed to submit invoke: %w", err)
	}

	var submitted struct {
		TransactionHash string `json:"transaction_hash"`
	}
	if err := json.Unmarshal(result, &submitted); err != nil {
		return "", fmt.Errorf("failed to unmarshal invoke result: %w", err)
	}
	if submitted.TransactionHash == "" {
		return "", fmt.Errorf("node returned no transaction hash")
	}

	log.Printf("[Starknet] Submitted invoke: %s", submitted.TransactionHash)
	return submitted.TransactionHash, nil
}

// WaitForTransaction polls the transaction receipt until the transaction is
// accepted or reverted. Once submitted, a transaction runs to completion on
// the network; the caller can only observe, not cancel.
func (c *Client) WaitForTransaction(ctx context.Context, txHash string) error {
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		result, err := c.rpcCall(ctx, "starknet_getTransactionReceipt", map[string]interface{}{
			"transaction_hash": txHash,
		})
		if err != nil {
			// Receipt may not exist yet; keep polling.
			continue
		}

		var receipt struct {
			ExecutionStatus string `json:"execution_status"`
			FinalityStatus  string `json:"finality_status"`
			RevertReason    string `json:"revert_reason"`
		}
		if err := json.Unmarshal(result, &receipt); err != nil {
			return fmt.Errorf("failed to unmarshal receipt: %w", err)
		}

		switch receipt.ExecutionStatus {
		case "SUCCEEDED":
			return nil
		case "REVERTED":
			return fmt.Errorf("transaction %s reverted: %s", txHash, receipt.RevertReason)
		default:
			// Still pending.
		}
	}
}
