package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/ylbabygo/xuekework/internal/config"
)

var (
	ErrUnknownModel    = errors.New("unknown model")
	ErrProviderFailure = errors.New("provider request failed")
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string
	Messages []ChatMessage
}

type ChatResponse struct {
	Content string
	Model   string
}

// Provider is one upstream AI vendor. Implementations translate the neutral
// chat request into the vendor's wire format.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

type ModelInfo struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// Registry routes a model identifier to the provider configured to serve it.
type Registry struct {
	providers  map[string]Provider
	modelIndex map[string]Provider
	models     []ModelInfo
}

var defaultBaseURLs = map[string]string{
	"openai":   "https://api.openai.com/v1",
	"deepseek": "https://api.deepseek.com/v1",
	"kimi":     "https://api.moonshot.cn/v1",
	"zhipu":    "https://open.bigmodel.cn/api/paas/v4",
	"claude":   "https://api.anthropic.com",
	"gemini":   "https://generativelanguage.googleapis.com/v1beta",
	"baidu":    "https://aip.baidubce.com",
}

func NewRegistry(cfg config.AIConfig) (*Registry, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = 120 * time.Second
	}

	reg := &Registry{
		providers:  make(map[string]Provider),
		modelIndex: make(map[string]Provider),
	}

	for name, pc := range cfg.Providers {
		baseURL := pc.BaseURL
		if baseURL == "" {
			baseURL = defaultBaseURLs[name]
		}
		if baseURL == "" {
			return nil, fmt.Errorf("provider %s: base url required", name)
		}

		var provider Provider
		switch name {
		case "openai", "deepseek", "kimi", "zhipu":
			provider = NewOpenAICompatible(name, baseURL, pc.APIKey, httpClient)
		case "claude":
			provider = NewAnthropic(baseURL, pc.APIKey, httpClient)
		case "gemini":
			provider = NewGemini(baseURL, pc.APIKey, httpClient)
		case "baidu":
			provider = NewBaidu(baseURL, pc.APIKey, httpClient)
		default:
			return nil, fmt.Errorf("provider %s: unsupported", name)
		}

		reg.providers[name] = provider
		for _, model := range pc.Models {
			reg.modelIndex[model] = provider
			reg.models = append(reg.models, ModelInfo{ID: model, Provider: name})
		}
	}

	sort.Slice(reg.models, func(i, j int) bool {
		if reg.models[i].Provider != reg.models[j].Provider {
			return reg.models[i].Provider < reg.models[j].Provider
		}
		return reg.models[i].ID < reg.models[j].ID
	})

	return reg, nil
}

func (r *Registry) ForModel(model string) (Provider, error) {
	provider, ok := r.modelIndex[model]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	return provider, nil
}

func (r *Registry) Models() []ModelInfo {
	out := make([]ModelInfo, len(r.models))
	copy(out, r.models)
	return out
}
