// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import "embed"

// Calculator is the schema for calculator definition files.
const Calculator = "calculator.schema.json"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
