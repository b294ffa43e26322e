package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
	"github.com/heartmarshall/zhuyin-highlighter/internal/service/highlighter"
)

// highlighterServiceMock is a hand-written mock in the moq style.
type highlighterServiceMock struct {
	SettingsFunc          func() domain.DisplayConfig
	UpdateSettingsFunc    func(ctx context.Context, input highlighter.UpdateSettingsInput) (domain.DisplayConfig, error)
	ToggleEnabledFunc     func(ctx context.Context) (domain.DisplayConfig, error)
	ToggleLearnedFunc     func(ctx context.Context, character string) (highlighter.CharacterInfo, error)
	LearnedCharactersFunc func() []string
	LookupFunc            func(character string) (highlighter.CharacterInfo, error)
	ProcessHTMLFunc       func(ctx context.Context, content []byte) (highlighter.Result, error)
	ProcessXMLFunc        func(ctx context.Context, content []byte) (highlighter.Result, error)

	mu    sync.Mutex
	calls struct {
		UpdateSettings []highlighter.UpdateSettingsInput
		ToggleLearned  []string
		ProcessHTML    [][]byte
		ProcessXML     [][]byte
	}
}

func (m *highlighterServiceMock) Settings() domain.DisplayConfig {
	if m.SettingsFunc == nil {
		panic("highlighterServiceMock.SettingsFunc: method is nil but Settings was just called")
	}
	return m.SettingsFunc()
}

func (m *highlighterServiceMock) UpdateSettings(ctx context.Context, input highlighter.UpdateSettingsInput) (domain.DisplayConfig, error) {
	if m.UpdateSettingsFunc == nil {
		panic("highlighterServiceMock.UpdateSettingsFunc: method is nil but UpdateSettings was just called")
	}
	m.mu.Lock()
	m.calls.UpdateSettings = append(m.calls.UpdateSettings, input)
	m.mu.Unlock()
	return m.UpdateSettingsFunc(ctx, input)
}

func (m *highlighterServiceMock) ToggleEnabled(ctx context.Context) (domain.DisplayConfig, error) {
	if m.ToggleEnabledFunc == nil {
		panic("highlighterServiceMock.ToggleEnabledFunc: method is nil but ToggleEnabled was just called")
	}
	return m.ToggleEnabledFunc(ctx)
}

func (m *highlighterServiceMock) ToggleLearned(ctx context.Context, character string) (highlighter.CharacterInfo, error) {
	if m.ToggleLearnedFunc == nil {
		panic("highlighterServiceMock.ToggleLearnedFunc: method is nil but ToggleLearned was just called")
	}
	m.mu.Lock()
	m.calls.ToggleLearned = append(m.calls.ToggleLearned, character)
	m.mu.Unlock()
	return m.ToggleLearnedFunc(ctx, character)
}

func (m *highlighterServiceMock) LearnedCharacters() []string {
	if m.LearnedCharactersFunc == nil {
		panic("highlighterServiceMock.LearnedCharactersFunc: method is nil but LearnedCharacters was just called")
	}
	return m.LearnedCharactersFunc()
}

func (m *highlighterServiceMock) Lookup(character string) (highlighter.CharacterInfo, error) {
	if m.LookupFunc == nil {
		panic("highlighterServiceMock.LookupFunc: method is nil but Lookup was just called")
	}
	return m.LookupFunc(character)
}

func (m *highlighterServiceMock) ProcessHTML(ctx context.Context, content []byte) (highlighter.Result, error) {
	if m.ProcessHTMLFunc == nil {
		panic("highlighterServiceMock.ProcessHTMLFunc: method is nil but ProcessHTML was just called")
	}
	m.mu.Lock()
	m.calls.ProcessHTML = append(m.calls.ProcessHTML, content)
	m.mu.Unlock()
	return m.ProcessHTMLFunc(ctx, content)
}

func (m *highlighterServiceMock) ProcessXML(ctx context.Context, content []byte) (highlighter.Result, error) {
	if m.ProcessXMLFunc == nil {
		panic("highlighterServiceMock.ProcessXMLFunc: method is nil but ProcessXML was just called")
	}
	m.mu.Lock()
	m.calls.ProcessXML = append(m.calls.ProcessXML, content)
	m.mu.Unlock()
	return m.ProcessXMLFunc(ctx, content)
}
