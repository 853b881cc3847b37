package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/llm"
)

type fakeChatModel struct {
	got  []*schema.Message
	opts *model.Options
	resp *schema.Message
	err  error
}

func (f *fakeChatModel) Generate(_ context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.got = in
	f.opts = model.GetCommonOptions(&model.Options{}, opts...)
	return f.resp, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestProviderChat(t *testing.T) {
	fake := &fakeChatModel{resp: schema.AssistantMessage(`{"ok":true}`, nil)}
	p := NewFromChatModel(fake)

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "rules"},
		{Role: llm.RoleUser, Content: "question"},
		{Role: "model", Content: "earlier answer"},
	}, llm.WithTemperature(0.2), llm.WithMaxTokens(128))

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	require.Len(t, fake.got, 3)
	assert.Equal(t, schema.System, fake.got[0].Role)
	assert.Equal(t, schema.User, fake.got[1].Role)
	assert.Equal(t, schema.Assistant, fake.got[2].Role)
	require.NotNil(t, fake.opts.MaxTokens)
	assert.Equal(t, 128, *fake.opts.MaxTokens)
}

func TestProviderChatError(t *testing.T) {
	p := NewFromChatModel(&fakeChatModel{err: errors.New("rate limited")})

	_, err := p.Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestNewProviderRequiresKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Model: "gpt-4o-mini"})
	assert.Error(t, err)
}
