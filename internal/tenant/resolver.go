package tenant

import (
	"strings"

	"github.com/alfredjeanlab/audit/internal/config"
	"github.com/alfredjeanlab/audit/internal/model"
)

// ShouldLoadSamples decides whether sample records are seeded for a tenant.
// A loadSample tenant parameter wins over the process-wide module argument;
// when the parameter repeats, the last occurrence wins. Absent both, samples
// are not loaded.
func ShouldLoadSamples(args config.ModuleArgs, attrs *model.TenantAttributes) bool {
	value := args.GetOrDefault(config.KeyLoadSample, "false")
	if attrs != nil {
		for _, p := range attrs.Parameters {
			if p.Key == config.KeyLoadSample {
				value = p.Value
			}
		}
	}
	return parseBool(value)
}

// parseBool is true only for "true" in any letter case.
func parseBool(s string) bool {
	return strings.EqualFold(s, "true")
}
