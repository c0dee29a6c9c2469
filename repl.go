package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Voice-Commerce/agent/agents/conversation"
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
)

type replConversations interface {
	Open(ctx context.Context, agentType contractx.AgentType) (string, string, error)
	HandleMessage(ctx context.Context, sessionID string, text string) (conversation.Reply, error)
	Close(ctx context.Context, sessionID string) error
}

const replFallback = "Sorry, I didn't get that. Could you say it again?"

// runREPL is a text stand-in for the voice pipeline: one line in, one reply out.
func runREPL(ctx context.Context, svc replConversations, agentType contractx.AgentType, in io.Reader, out io.Writer) error {
	sessionID, greeting, err := svc.Open(ctx, agentType)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(context.Background(), sessionID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("close session")
		}
	}()

	fmt.Fprintf(out, "%s: %s\n", agentType, greeting)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "bye":
			return nil
		}

		reply, err := svc.HandleMessage(ctx, sessionID, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Error().Err(err).Str("session_id", sessionID).Msg("turn failed")
			fmt.Fprintf(out, "%s: %s\n", agentType, replFallback)
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", agentType, reply.Message)
	}
}
