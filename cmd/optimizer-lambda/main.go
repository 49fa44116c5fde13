// Package main serves the armor optimizer as an AWS Lambda function URL.
// The catalog is loaded once per cold start from the ARMOROPT_ environment.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/config"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
	"github.com/cory-johannsen/armor-optimizer/internal/format"
	"github.com/cory-johannsen/armor-optimizer/internal/observability"
	"github.com/cory-johannsen/armor-optimizer/internal/optimizer"
	"github.com/cory-johannsen/armor-optimizer/internal/scripting"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type optimizeRequest struct {
	MaxEquipLoad     float64           `json:"maxEquipLoad"`
	CurrentEquipLoad float64           `json:"currentEquipLoad"`
	Breakpoint       float64           `json:"breakpoint"`
	Fitness          string            `json:"fitness"`
	Locked           map[string]string `json:"locked"`
	Ignored          []string          `json:"ignored"`
	Script           string            `json:"script"`
}

type optimizeResult struct {
	RunID    string           `json:"runId"`
	Budget   float64          `json:"budget"`
	Fitness  string           `json:"fitness"`
	Warnings []string         `json:"warnings,omitempty"`
	Sets     []format.SetView `json:"sets"`
}

type handler struct {
	base    config.Config
	catalog *armor.Catalog
	svc     *optimizer.Service
	logger  *zap.Logger
}

func (h *handler) handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req optimizeRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}

	cfg := h.base
	cfg.Optimizer = config.OptimizerConfig{
		MaxEquipLoad:     req.MaxEquipLoad,
		CurrentEquipLoad: req.CurrentEquipLoad,
		Breakpoint:       req.Breakpoint,
		Fitness:          req.Fitness,
		Locked:           req.Locked,
		Ignored:          req.Ignored,
	}
	if cfg.Optimizer.Breakpoint == 0 {
		cfg.Optimizer.Breakpoint = optimizer.NormalRoll
	}
	if cfg.Optimizer.Fitness == "" {
		cfg.Optimizer.Fitness = string(fitness.Standard)
	}
	cfg.Scripting.FitnessScript = req.Script
	if err := cfg.Validate(); err != nil {
		return errResp(400, err.Error())
	}

	// Request scripts are always inline; they are never resolved as file paths.
	script, err := scripting.CompileFor(cfg.Optimizer.Mode(), req.Script, cfg.Scripting.InstructionLimit)
	if err != nil {
		return errResp(400, err.Error())
	}
	defer script.Close()

	rep := h.svc.Optimize(ctx, h.catalog, cfg.Optimizer.ToOptimizer(script.Func()))
	if n := script.Failures(); n > 0 {
		h.logger.Warn("fitness script failed on some items", zap.String("run_id", rep.RunID), zap.Int("failures", n))
	}
	resp := optimizeResult{
		RunID:    rep.RunID,
		Budget:   rep.Result.Budget,
		Fitness:  fitness.Label(cfg.Optimizer.Mode()),
		Warnings: rep.Warnings,
		Sets:     format.Views(rep.Result.Sets),
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("encoding response", zap.String("run_id", rep.RunID), zap.Error(err))
		return errResp(500, "encoding response failed")
	}
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	cat, err := armor.LoadCatalog(cfg.Catalog.Dir, cfg.Catalog.JSON)
	if err != nil {
		logger.Fatal("loading armor catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("items", cat.Len()), zap.String("source", fmt.Sprintf("%s%s", cfg.Catalog.Dir, cfg.Catalog.JSON)))

	h := &handler{base: cfg, catalog: cat, svc: optimizer.NewService(logger), logger: logger}
	lambda.Start(h.handle)
}
