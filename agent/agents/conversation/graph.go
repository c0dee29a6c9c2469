package conversation

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/Chative-Voice-Commerce/agent/nodes"
)

func (s *Service) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, s.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadSession(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_session: %w", err)
	}

	if err := graph.AddLambdaNode("build_prompt_vars",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.BuildPromptVars(ctx, in, s.promptVars)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node build_prompt_vars: %w", err)
	}

	if err := graph.AddLambdaNode("run_persona",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RunPersona(ctx, in, s.personas, s.bindTools)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_persona: %w", err)
	}

	if err := graph.AddLambdaNode("append_turns",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AppendTurns(in, s.historyLimit)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_turns: %w", err)
	}

	if err := graph.AddLambdaNode("save_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveSession(ctx, in, s.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_session: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_session"},
		{"load_session", "build_prompt_vars"},
		{"build_prompt_vars", "run_persona"},
		{"run_persona", "append_turns"},
		{"append_turns", "save_session"},
		{"save_session", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("conversation.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile conversation graph: %w", err)
	}
	return runner, nil
}
