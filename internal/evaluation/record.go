// internal/evaluation/record.go
package evaluation

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Metadata describes the evaluation run that produced a record.
type Metadata struct {
	Timestamp      string
	EvaluationsRun []string
}

// InputData describes the manuscript decision under evaluation.
type InputData struct {
	JID         string
	AID         any
	Aligned     any
	GoldAligned any
	Title       string
	// Rationale is nil when the record carries none.
	Rationale *string
}

// Record is one decoded evaluation record. Results keeps the document order of
// evaluation_results.
type Record struct {
	Metadata   Metadata
	Input      InputData
	Results    []Result
	SourceFile string
}

// DecodeRecords parses a JSON array of evaluation records. An empty or
// whitespace-only document is malformed; an empty array yields no records.
func DecodeRecords(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, &MalformedInputError{Reason: "document is not valid JSON"}
	}
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(data)
	records := make([]Record, 0, len(doc.Array()))
	doc.ForEach(func(_, item gjson.Result) bool {
		records = append(records, decodeRecord(item))
		return true
	})
	return records, nil
}

func decodeRecord(item gjson.Result) Record {
	meta := item.Get("metadata")
	input := item.Get("input_data")

	var run []string
	for _, v := range meta.Get("evaluations_run").Array() {
		run = append(run, v.String())
	}

	rec := Record{
		Metadata: Metadata{
			Timestamp:      meta.Get("timestamp").String(),
			EvaluationsRun: run,
		},
		Input: InputData{
			JID:         input.Get("jid").String(),
			AID:         jsonValue(input.Get("aid")),
			Aligned:     jsonValue(input.Get("aligned")),
			GoldAligned: jsonValue(input.Get("gold_aligned")),
			Title:       input.Get("title").String(),
		},
		SourceFile: item.Get("source_file").String(),
	}
	if r := input.Get("rationale"); r.Exists() && r.Type != gjson.Null {
		rationale := r.String()
		rec.Input.Rationale = &rationale
	}

	item.Get("evaluation_results").ForEach(func(key, value gjson.Result) bool {
		rec.Results = append(rec.Results, decodeResult(key.String(), value))
		return true
	})
	return rec
}

func decodeResult(kind string, value gjson.Result) Result {
	res := Result{Kind: kind, Raw: jsonValue(value)}
	if !value.IsObject() {
		return res
	}
	res.IsMapping = true
	res.Fields = []Field{}
	value.ForEach(func(key, sub gjson.Result) bool {
		res.Fields = append(res.Fields, Field{Key: key.String(), Value: jsonValue(sub)})
		return true
	})
	return res
}

// jsonValue converts r like gjson's Value, except that numbers keep their
// literal text as json.Number so large integers survive unchanged.
func jsonValue(r gjson.Result) any {
	switch {
	case r.Type == gjson.Number:
		return json.Number(r.Raw)
	case r.IsObject():
		m := make(map[string]any)
		r.ForEach(func(key, value gjson.Result) bool {
			m[key.String()] = jsonValue(value)
			return true
		})
		return m
	case r.IsArray():
		items := make([]any, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, jsonValue(value))
			return true
		})
		return items
	default:
		return r.Value()
	}
}
