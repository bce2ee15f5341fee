package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	"github.com/theapemachine/a2a-rpc/pkg/client"
)

var (
	clientAddrFlag      string
	clientTransportFlag string
	clientTextFlag      string
	clientBlockingFlag  bool
	clientTaskFlag      string

	clientCmd = &cobra.Command{
		Use:   "client",
		Short: "A2A client operations",
		Long:  `Run client operations against a running A2A agent`,
	}

	sendCmd = &cobra.Command{
		Use:   "send",
		Short: "Send a text message to an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend()
		},
	}

	getTaskCmd = &cobra.Command{
		Use:   "get-task",
		Short: "Fetch a task by id from an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetTask()
		},
	}

	cardCmd = &cobra.Command{
		Use:   "card",
		Short: "Fetch and render an agent's AgentCard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCard()
		},
	}
)

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(sendCmd)
	clientCmd.AddCommand(getTaskCmd)
	clientCmd.AddCommand(cardCmd)

	clientCmd.PersistentFlags().StringVar(&clientAddrFlag, "addr", "http://localhost:8080", "agent address (base URL for jsonrpc, host:port for grpc)")
	clientCmd.PersistentFlags().StringVar(&clientTransportFlag, "transport", "JSONRPC", "transport to use: JSONRPC or GRPC")

	sendCmd.Flags().StringVar(&clientTextFlag, "text", "hello", "text to send")
	sendCmd.Flags().BoolVar(&clientBlockingFlag, "blocking", true, "wait for the agent's final response")

	getTaskCmd.Flags().StringVar(&clientTaskFlag, "task", "", "task id to fetch")
}

func newFacadeClient() (*client.Client, error) {
	return client.New(a2a.Transport(clientTransportFlag), clientAddrFlag)
}

func runSend() error {
	c, err := newFacadeClient()
	if err != nil {
		log.Error("failed to construct client", "error", err)
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := a2a.DefaultSendMessageConfiguration()
	cfg.Blocking = clientBlockingFlag

	resp, err := c.SendMessage(ctx, &a2a.SendMessageRequest{
		Message:       &a2a.Message{Role: a2a.RoleUser, Parts: []a2a.Part{a2a.NewTextPart(clientTextFlag)}},
		Configuration: &cfg,
	})
	if err != nil {
		log.Error("send message failed", "error", err)
		return err
	}

	switch resp.Kind {
	case a2a.SendMessagePayloadTask:
		fmt.Println(resp.Task.String())
	case a2a.SendMessagePayloadMessage:
		fmt.Println(resp.Message.String())
	}

	return nil
}

func runGetTask() error {
	if clientTaskFlag == "" {
		return fmt.Errorf("--task is required")
	}

	c, err := newFacadeClient()
	if err != nil {
		log.Error("failed to construct client", "error", err)
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	task, err := c.GetTask(ctx, &a2a.GetTaskRequest{ID: clientTaskFlag})
	if err != nil {
		log.Error("get task failed", "error", err)
		return err
	}

	fmt.Println(task.String())
	return nil
}

// runCard fetches the static AgentCard from the JSON-RPC transport's
// well-known endpoint and renders it. AgentCard has no binary-wire
// equivalent (it is advertised over HTTP only), so --transport is ignored.
func runCard() error {
	res, err := http.Get(clientAddrFlag + "/.well-known/agent-card")
	if err != nil {
		log.Error("failed to fetch agent card", "error", err)
		return err
	}
	defer res.Body.Close()

	var card a2a.AgentCard
	if err := json.NewDecoder(res.Body).Decode(&card); err != nil {
		log.Error("failed to decode agent card", "error", err)
		return err
	}

	fmt.Println(card.String())
	return nil
}
