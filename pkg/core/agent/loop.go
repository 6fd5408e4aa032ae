package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"brquote/pkg/core/llm"
	"brquote/pkg/core/logging"
	"brquote/pkg/core/tools"
	"brquote/pkg/core/utils"
)

const systemInstruction = `You are a financial data assistant for the Brazilian market (B3).
Answer questions by calling the available data tools, then summarize the
returned data for the user. Prefer concrete numbers from tool results over
general knowledge. Answer in the language of the question.`

// Loop runs one prompt to completion against the tool registry: the model
// requests tool calls, the loop executes them and feeds results back, until
// the model produces a final answer or the turn budget runs out.
type Loop struct {
	registry *tools.Registry
	manager  *Manager
}

// NewLoop builds a Loop over a registry and a provider manager.
func NewLoop(registry *tools.Registry, manager *Manager) *Loop {
	return &Loop{registry: registry, manager: manager}
}

// Run executes one prompt. Gemini uses native function calling; other
// providers go through the prompted JSON protocol.
func (l *Loop) Run(ctx context.Context, prompt string) (string, error) {
	if l.manager.ActiveProvider() == "gemini" {
		return l.runNative(ctx, prompt)
	}
	return l.runPrompted(ctx, prompt)
}

// runNative drives a Gemini chat session with the tool declarations attached.
func (l *Loop) runNative(ctx context.Context, prompt string) (string, error) {
	log := logging.Component("agent.loop")
	client, err := llm.NewGeminiClient(ctx)
	if err != nil {
		return "", err
	}

	model := l.manager.Model()
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(0.1)),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Tools:             []*genai.Tool{{FunctionDeclarations: declarations(l.registry.Schema())}},
	}

	chat, err := client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return "", fmt.Errorf("create chat session: %w", err)
	}

	res, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("send prompt: %w", err)
	}

	for turn := 0; turn < l.manager.config.MaxToolTurns; turn++ {
		calls := res.FunctionCalls()
		if len(calls) == 0 {
			break
		}
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			log.WithFields(logging.Fields{"function": call.Name, "turn": turn}).Info("model requested tool call")
			result, err := l.registry.Execute(ctx, call.Name, call.Args)
			parts = append(parts, genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       call.ID,
				Name:     call.Name,
				Response: responseMap(result, err),
			}})
		}
		res, err = chat.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("send tool results: %w", err)
		}
	}

	answer := finalAnswer(res.Text())
	if answer == "" {
		return "", fmt.Errorf("model produced no final answer within %d tool turns", l.manager.config.MaxToolTurns)
	}
	return answer, nil
}

// finalAnswer normalizes the model's closing message for display: fence
// unwrapping, then a markdown parse check so a mangled answer is at least
// visible in the logs before it reaches the user.
func finalAnswer(raw string) string {
	answer := utils.CleanMarkdown(raw)
	if answer != "" && !utils.ValidateMarkdown(answer) {
		logging.Component("agent.loop").Warn("final answer does not parse as markdown")
	}
	return answer
}

// promptedCall is the JSON protocol for providers without native function
// calling: the model emits either a tool call or a final answer.
type promptedCall struct {
	FunctionName string         `json:"function_name"`
	Parameters   map[string]any `json:"parameters"`
	Answer       string         `json:"answer"`
}

// runPrompted emulates function calling over plain chat completions. The
// model's JSON is repaired before decoding, since smaller models routinely
// emit loose quoting.
func (l *Loop) runPrompted(ctx context.Context, prompt string) (string, error) {
	log := logging.Component("agent.loop")
	provider := l.manager.Provider()

	declJSON, err := json.Marshal(l.registry.Schema().Functions)
	if err != nil {
		return "", fmt.Errorf("marshal tool declarations: %w", err)
	}
	system := fmt.Sprintf(`%s

You can call these tools, declared as JSON schemas:
%s

Respond with exactly one JSON object, nothing else:
- to call a tool: {"function_name": "<name>", "parameters": {...}}
- to answer:      {"answer": "<final answer in markdown>"}`, systemInstruction, declJSON)

	transcript := prompt
	for turn := 0; turn < l.manager.config.MaxToolTurns; turn++ {
		raw, err := provider.GenerateResponse(ctx, transcript, provider.AdaptInstructions(system), nil)
		if err != nil {
			return "", err
		}
		call, err := decodeCall(raw)
		if err != nil {
			return "", err
		}
		if call.FunctionName == "" {
			return finalAnswer(call.Answer), nil
		}

		log.WithFields(logging.Fields{"function": call.FunctionName, "turn": turn}).Info("model requested tool call")
		result, execErr := l.registry.Execute(ctx, call.FunctionName, call.Parameters)
		payload, err := json.Marshal(responseMap(result, execErr))
		if err != nil {
			return "", fmt.Errorf("marshal tool result: %w", err)
		}
		transcript = fmt.Sprintf("%s\n\nTool %s returned:\n%s\n\nContinue.", transcript, call.FunctionName, payload)
	}
	return "", fmt.Errorf("model produced no final answer within %d tool turns", l.manager.config.MaxToolTurns)
}

func decodeCall(raw string) (promptedCall, error) {
	cleaned := utils.CleanMarkdown(raw)
	var call promptedCall
	if err := json.Unmarshal([]byte(cleaned), &call); err == nil {
		return call, nil
	}
	repaired, err := utils.RepairJSON(cleaned)
	if err != nil {
		return promptedCall{}, fmt.Errorf("model reply is not the expected JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &call); err != nil {
		return promptedCall{}, fmt.Errorf("model reply is not the expected JSON: %w", err)
	}
	return call, nil
}

// responseMap renders a tool outcome as the object shape function-calling
// APIs require. Non-object results are wrapped; failures become an error
// field the model can react to.
func responseMap(result any, err error) map[string]any {
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	if result == nil {
		return map[string]any{"result": nil}
	}
	raw, merr := json.Marshal(result)
	if merr != nil {
		return map[string]any{"error": fmt.Sprintf("result not serializable: %v", merr)}
	}
	var obj map[string]any
	if json.Unmarshal(raw, &obj) == nil {
		return obj
	}
	var v any
	if json.Unmarshal(raw, &v) == nil {
		return map[string]any{"result": v}
	}
	return map[string]any{"result": string(raw)}
}

// declarations converts the tool schema into GenAI function declarations.
func declarations(schema *tools.Schema) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(schema.Functions))
	for _, f := range schema.Functions {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        f.Name,
			Description: f.Description,
			Parameters:  toGenaiSchema(f.Parameters),
		})
	}
	return decls
}

func toGenaiSchema(p *tools.ParameterSchema) *genai.Schema {
	if p == nil {
		return nil
	}
	s := &genai.Schema{
		Type:        genaiType(p.Type),
		Description: p.Description,
		Enum:        p.Enum,
		Required:    p.Required,
		Items:       toGenaiSchema(p.Items),
	}
	if len(p.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(p.Properties))
		for name, prop := range p.Properties {
			s.Properties[name] = toGenaiSchema(prop)
		}
	}
	return s
}

func genaiType(t string) genai.Type {
	switch strings.ToLower(t) {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
