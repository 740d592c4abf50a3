// Package schemas embeds the JSON Schema documents shipped with the module.
package schemas

import (
	"embed"
	"encoding/json"
)

// JobExtractionName is the schema name sent to the model provider.
const JobExtractionName = "job_extraction"

//go:embed *.schema.json
var files embed.FS

// JobExtraction returns the raw job extraction schema.
func JobExtraction() json.RawMessage {
	data, err := files.ReadFile("job_extraction.schema.json")
	if err != nil {
		panic("embedded job extraction schema missing: " + err.Error())
	}
	return json.RawMessage(data)
}

// ProviderSchema returns the job extraction schema without the "$schema" and
// "title" keywords, which strict structured-output providers reject.
func ProviderSchema() json.RawMessage {
	var doc map[string]any
	if err := json.Unmarshal(JobExtraction(), &doc); err != nil {
		panic("embedded job extraction schema invalid: " + err.Error())
	}
	delete(doc, "$schema")
	delete(doc, "title")
	out, err := json.Marshal(doc)
	if err != nil {
		panic("embedded job extraction schema invalid: " + err.Error())
	}
	return out
}
