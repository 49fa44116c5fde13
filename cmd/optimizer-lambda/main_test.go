package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/config"
	"github.com/cory-johannsen/armor-optimizer/internal/optimizer"
)

func newTestHandler(t *testing.T) *handler {
	t.Helper()
	cat, err := armor.NewCatalog([]*armor.Armor{
		{ID: "knight-helm", Name: "Knight Helm", Slot: armor.SlotHead, Weight: 5.6, Poise: 6, Defenses: armor.Defenses{Physical: 4.5, Holy: 3.5}},
		{ID: "black-hood", Name: "Black Hood", Slot: armor.SlotHead, Weight: 1.2, Poise: 1, Defenses: armor.Defenses{Physical: 1.5, Holy: 1}},
		{ID: "knight-armor", Name: "Knight Armor", Slot: armor.SlotChest, Weight: 13.7, Poise: 20, Defenses: armor.Defenses{Physical: 12, Holy: 9}},
		{ID: "black-boots", Name: "Black Boots", Slot: armor.SlotLegs, Weight: 2, Poise: 1.5, Defenses: armor.Defenses{Physical: 1}},
	})
	require.NoError(t, err)
	base := config.Config{
		Catalog: config.CatalogConfig{Dir: config.DefaultCatalogDir},
		Logging: config.LoggingConfig{Level: "info", Format: "json"},
	}
	logger := zap.NewNop()
	return &handler{base: base, catalog: cat, svc: optimizer.NewService(logger), logger: logger}
}

func call(t *testing.T, h *handler, body string, b64 bool) (int, map[string]any) {
	t.Helper()
	if b64 {
		body = base64.StdEncoding.EncodeToString([]byte(body))
	}
	resp, err := h.handle(context.Background(), events.LambdaFunctionURLRequest{Body: body, IsBase64Encoded: b64})
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	return resp.StatusCode, out
}

func TestHandle_Defaults(t *testing.T) {
	code, out := call(t, newTestHandler(t), `{"maxEquipLoad": 30}`, false)
	require.Equal(t, 200, code, out)

	assert.Equal(t, "Greatest Standard Absorption", out["fitness"])
	assert.InDelta(t, 21.0, out["budget"], 1e-9)
	assert.NotEmpty(t, out["runId"])
	sets, ok := out["sets"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, sets)
	assert.LessOrEqual(t, len(sets), optimizer.MaxSets)
}

func TestHandle_Base64AndLock(t *testing.T) {
	body := `{"maxEquipLoad": 30, "breakpoint": 1.0, "fitness": "sort-poise", "locked": {"helmet": "black-hood"}, "ignored": ["knight-armor"]}`
	code, out := call(t, newTestHandler(t), body, true)
	require.Equal(t, 200, code, out)

	assert.Equal(t, "Greatest Poise", out["fitness"])
	sets := out["sets"].([]any)
	require.NotEmpty(t, sets)
	pieces := sets[0].(map[string]any)["pieces"].([]any)
	head := pieces[0].(map[string]any)
	assert.Equal(t, "black-hood", head["id"])
	chest := pieces[1].(map[string]any)
	assert.Equal(t, false, chest["equipped"])
}

func TestHandle_CustomScript(t *testing.T) {
	body := `{"maxEquipLoad": 30, "fitness": "custom", "script": "holy * 2"}`
	code, out := call(t, newTestHandler(t), body, false)
	require.Equal(t, 200, code, out)
	assert.Equal(t, "Custom Script", out["fitness"])

	sets := out["sets"].([]any)
	require.NotEmpty(t, sets)
	assert.InDelta(t, 25.0, sets[0].(map[string]any)["fitness"], 1e-9)
}

func TestHandle_BadRequests(t *testing.T) {
	h := newTestHandler(t)
	cases := map[string]string{
		"invalid JSON":    `{"maxEquipLoad":`,
		"max_equip_load":  `{"maxEquipLoad": 0}`,
		"breakpoint":      `{"maxEquipLoad": 30, "breakpoint": 0.5}`,
		"not a known":     `{"maxEquipLoad": 30, "fitness": "weight"}`,
		"fitness_script":  `{"maxEquipLoad": 30, "fitness": "custom"}`,
		"compiling":       `{"maxEquipLoad": 30, "fitness": "custom", "script": "holy +"}`,
		"unknown slot":    `{"maxEquipLoad": 30, "locked": {"feet": "black-boots"}}`,
	}
	for want, body := range cases {
		code, out := call(t, h, body, false)
		assert.Equal(t, 400, code, body)
		assert.Contains(t, out["error"], want, body)
	}

	resp, err := h.handle(context.Background(), events.LambdaFunctionURLRequest{Body: "!!", IsBase64Encoded: true})
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
