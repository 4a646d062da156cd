package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alfredjeanlab/audit/internal/model"
	"github.com/alfredjeanlab/audit/internal/ui"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printResult prints a lifecycle result. Bodies are printed verbatim.
func printResult(action string, res *model.Result) error {
	if jsonOutput {
		out := map[string]any{"status": res.Status}
		if len(res.Body) > 0 {
			if json.Valid(res.Body) {
				out["body"] = json.RawMessage(res.Body)
			} else {
				out["body"] = string(res.Body)
			}
		}
		return printJSON(out)
	}

	status := fmt.Sprintf("%d %s", res.Status, http.StatusText(res.Status))
	fmt.Printf("%s: %s\n", action, ui.RenderStatus(res.Status, status))
	if len(res.Body) > 0 {
		fmt.Println(string(res.Body))
	}
	return nil
}
