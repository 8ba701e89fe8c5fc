package validate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/tenderstore/internal/ports"
)

// JSONLResult - статистика валидации потока JSONL.
type JSONLResult struct {
	ValidLinesCount   int
	InvalidLinesCount int
}

// ValidateJSONLStream - валидирует каждую строку потока, валидные пишет в writer
// каноническим компактным JSON. Пустые строки пропускаются.
func ValidateJSONLStream(ctx context.Context, validator ports.PricingRequestValidator, ir io.Reader, ow io.Writer) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		req, err := PricingRequestFromJSON(ctx, validator, line)
		if err != nil {
			res.InvalidLinesCount++
			continue
		}

		canonical, _ := json.Marshal(req)
		if _, err := ow.Write(append(canonical, '\n')); err != nil {
			return res, fmt.Errorf("write valid line: %w", err)
		}
		res.ValidLinesCount++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
