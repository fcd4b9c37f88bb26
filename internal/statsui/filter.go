package statsui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/tuidrill/internal/drill"
	"github.com/verte-zerg/tuidrill/internal/model"
)

const (
	fieldMode = iota
	fieldSince
	fieldLast
	fieldWindow
	fieldCount
)

const dateLayout = "2006-01-02"

var filterPrompts = [fieldCount]string{
	fieldMode:   "Mode: ",
	fieldSince:  "Since (YYYY-MM-DD): ",
	fieldLast:   "Last: ",
	fieldWindow: "Curve window: ",
}

// formatFilter renders cfg as settings form values.
func formatFilter(cfg model.StatsConfig) [fieldCount]string {
	var values [fieldCount]string
	values[fieldMode] = strings.TrimSpace(cfg.Mode)
	if cfg.Since != nil {
		values[fieldSince] = cfg.Since.Format(dateLayout)
	}
	if cfg.Last > 0 {
		values[fieldLast] = strconv.Itoa(cfg.Last)
	}
	values[fieldWindow] = strconv.Itoa(cfg.CurveWindow)
	return values
}

// parseFilter reads settings form values. Blank fields mean no filter, except
// the curve window, which falls back to 1.
func parseFilter(values [fieldCount]string, weakTop int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{CurveWindow: 1, WeakTop: weakTop}

	if raw := strings.TrimSpace(values[fieldMode]); raw != "" {
		mode, err := drill.ParseMode(raw)
		if err != nil {
			return model.StatsConfig{}, err
		}
		cfg.Mode = string(mode)
	}

	if raw := strings.TrimSpace(values[fieldSince]); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}

	if raw := strings.TrimSpace(values[fieldLast]); raw != "" {
		last, err := strconv.Atoi(raw)
		if err != nil || last < 0 {
			return model.StatsConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = last
	}

	if raw := strings.TrimSpace(values[fieldWindow]); raw != "" {
		window, err := strconv.Atoi(raw)
		if err != nil || window < 1 {
			return model.StatsConfig{}, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = window
	}
	return cfg, nil
}
