// Package agent drives an LLM chat loop with the weather tool registered, so
// the model decides when to look a city up.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/sync/errgroup"
)

const systemPrompt = `Eres un asistente que informa sobre el tiempo de forma clara, cercana y en español.
Dispones de una herramienta get_weather que recibe el nombre de una ciudad y devuelve un resumen ya redactado con la situación actual y las próximas 24 horas.
Cuando el usuario pregunte por el tiempo en una ciudad, llama a la herramienta y apóyate en su resultado para responder. No muestres datos internos ni URLs.
Si la herramienta se disculpa porque no encuentra la ciudad o no puede consultar el tiempo, explícaselo al usuario con tus palabras y sugiere revisar el nombre o probar con otra ciudad.`

// Tool is the contract a callable must satisfy to be offered to the model.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, args string) (string, error)
}

// completionService is the slice of the OpenAI client the agent needs.
// Tests swap in a fake.
type completionService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Agent answers natural-language questions by looping chat completions and
// executing the tool calls the model requests, up to a bounded number of turns.
type Agent struct {
	completions completionService
	model       string
	tools       []Tool
	maxTurns    int
}

func New(apiKey, model string, tools ...Tool) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{
		completions: &client.Chat.Completions,
		model:       model,
		tools:       tools,
		maxTurns:    8,
	}
}

// Answer runs the turn loop until the model produces a final text answer.
func (a *Agent) Answer(ctx context.Context, question string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(question),
		},
		Tools: a.toolParams(),
	}

	for turn := 0; turn < a.maxTurns; turn++ {
		completion, err := a.completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", errors.New("chat completion returned no choices")
		}

		msg := completion.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())

		results := make([]string, len(msg.ToolCalls))
		g, gctx := errgroup.WithContext(ctx)
		for i, call := range msg.ToolCalls {
			i, call := i, call
			g.Go(func() error {
				tool := a.findTool(call.Function.Name)
				if tool == nil {
					return fmt.Errorf("tool %s not found", call.Function.Name)
				}
				out, err := tool.Execute(gctx, call.Function.Arguments)
				if err != nil {
					return fmt.Errorf("tool %s: %w", call.Function.Name, err)
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}

		for i, call := range msg.ToolCalls {
			params.Messages = append(params.Messages, openai.ToolMessage(results[i], call.ID))
		}
	}

	return "", fmt.Errorf("no final answer after %d turns", a.maxTurns)
}

func (a *Agent) findTool(name string) Tool {
	for _, t := range a.tools {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

func (a *Agent) toolParams() []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(a.tools))
	for _, t := range a.tools {
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name(),
				Description: openai.String(t.Description()),
				Parameters:  openai.FunctionParameters(t.Parameters()),
			},
		})
	}
	return out
}
