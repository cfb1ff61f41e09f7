//go:build js && wasm

package main

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"solpda/address"
	"solpda/config"
	"solpda/internal/logging"
	"solpda/pda"
	"solpda/seed"
)

// --- Helpers to parse inputs safely ---

// parseSeed converts a JS value into a seed. Strings are parsed as seed
// literals (u8[..], String[..], ...); Uint8Arrays are used as raw bytes.
func parseSeed(val js.Value) (seed.Value, error) {
	if val.Type() == js.TypeString {
		return seed.Parse(val.String())
	}

	if val.Type() == js.TypeObject && val.Get("constructor").Get("name").String() == "Uint8Array" {
		buf := make([]byte, val.Length())
		js.CopyBytesToGo(buf, val)
		return seed.Raw(buf), nil
	}

	return nil, errors.New("seed must be String or Uint8Array")
}

// parseOptions reads {noBumpSeed, bytes, program} into a config.
func parseOptions(val js.Value) (config.Config, error) {
	cfg := config.Default()
	if val.Type() != js.TypeObject {
		return cfg, nil
	}
	if v := val.Get("noBumpSeed"); v.Type() == js.TypeBoolean {
		cfg.NoBumpSeed = v.Bool()
	}
	if v := val.Get("bytes"); v.Type() == js.TypeBoolean && v.Bool() {
		cfg.Output = config.OutputBytes
	}
	if v := val.Get("program"); v.Type() == js.TypeString {
		program, err := address.Parse(v.String())
		if err != nil {
			return cfg, fmt.Errorf("invalid default program: %w", err)
		}
		cfg.Program = program
	}
	return cfg, nil
}

func errorResult(err error) map[string]interface{} {
	return map[string]interface{}{"error": err.Error()}
}

// --- WASM Bridge ---

func getProgramDerivedAddressJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "args: (programId, seedsArray, [options])"}
	}

	var opts js.Value
	if len(args) > 2 {
		opts = args[2]
	}
	cfg, err := parseOptions(opts)
	if err != nil {
		return errorResult(err)
	}
	d := pda.NewDeriver(cfg, pda.WithLogger(logging.Discard()))

	// An empty or missing programId falls back to options.program.
	program := d.Program()
	if id := args[0]; !id.IsUndefined() && !id.IsNull() && id.String() != "" {
		program, err = address.Parse(id.String())
		if err != nil {
			return errorResult(fmt.Errorf("invalid program id: %w", err))
		}
	}

	// Convert JS Array to seed values
	seedsJS := args[1]
	values := make([]seed.Value, 0, seedsJS.Length())
	for i := 0; i < seedsJS.Length(); i++ {
		v, err := parseSeed(seedsJS.Index(i))
		if err != nil {
			return errorResult(fmt.Errorf("seed %d: %w", i, err))
		}
		values = append(values, v)
	}

	r, err := d.Derive(context.Background(), program, values, d.Mode())
	if err != nil {
		return errorResult(err)
	}

	out := map[string]interface{}{
		"address": r.Address.String(),
		"text":    r.Render(cfg.AsBytes()),
	}
	if r.HasBump {
		out["bump"] = int(r.Bump)
	}
	return out
}

// getPublicKeyJS resolves a program id given as base-58, a 32-byte array or
// a 64-byte keypair array, and renders it.
func getPublicKeyJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "args: (key, [options])"}
	}
	text := args[0].String()

	a, err := address.Parse(text)
	if err != nil {
		if kp, kpErr := address.ParseKeypairArray(text); kpErr == nil {
			a, err = kp, nil
		}
	}
	if err != nil {
		return errorResult(err)
	}

	var opts js.Value
	if len(args) > 1 {
		opts = args[1]
	}
	cfg, err := parseOptions(opts)
	if err != nil {
		return errorResult(err)
	}
	rendered := a.String()
	if cfg.AsBytes() {
		rendered = a.FormatBytes()
	}
	return map[string]interface{}{"address": a.String(), "text": rendered}
}

func main() {
	js.Global().Set("getProgramDerivedAddress", js.FuncOf(getProgramDerivedAddressJS))
	js.Global().Set("getPublicKey", js.FuncOf(getPublicKeyJS))
	println("PDA WASM Initialized")
	select {}
}
