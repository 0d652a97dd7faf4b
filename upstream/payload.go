// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package upstream

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/stacklok/skillscout/catalog"
)

//go:embed data/skill-record.schema.json
var recordSchemaJSON []byte

var (
	recordSchemaOnce sync.Once
	recordSchema     *gojsonschema.Schema
	recordSchemaErr  error
)

// errMalformedPayload is the cause recorded when a response body is not a
// catalog envelope.
var errMalformedPayload = errors.New("malformed catalog payload")

// Page is a decoded catalog response. Search responses only populate Skills.
type Page struct {
	Skills []catalog.RawSkill
	// Total is the catalog-wide count reported by list responses, or -1 if
	// the field was absent.
	Total   int
	HasMore bool
	Page    int
	// Skipped counts records dropped because they failed validation.
	Skipped int
}

// clone returns a copy of p that shares no slices with it.
func (p *Page) clone() *Page {
	cp := *p
	cp.Skills = append([]catalog.RawSkill(nil), p.Skills...)
	return &cp
}

// wireSkill mirrors a record on the wire. Installs is a float because the
// catalog does not guarantee integral JSON numbers.
type wireSkill struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	SkillID  string   `json:"skillId"`
	Name     *string  `json:"name"`
	Installs *float64 `json:"installs"`
}

func loadRecordSchema() (*gojsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		recordSchema, recordSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recordSchemaJSON))
	})
	return recordSchema, recordSchemaErr
}

// ValidateRecord checks a single raw record against the skill record schema.
func ValidateRecord(data []byte) error {
	schema, err := loadRecordSchema()
	if err != nil {
		return fmt.Errorf("loading record schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("record schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("record schema validation failed: %s", strings.Join(msgs, "; "))
}

// decodePage parses a catalog envelope. The envelope itself must be a JSON
// object with a skills array; individual records that fail validation are
// skipped and counted instead of failing the page.
func decodePage(body []byte) (*Page, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedPayload, err)
	}

	rawSkills, ok := envelope["skills"]
	if !ok {
		return nil, fmt.Errorf("%w: missing skills array", errMalformedPayload)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(rawSkills, &records); err != nil {
		return nil, fmt.Errorf("%w: skills is not an array", errMalformedPayload)
	}

	page := &Page{
		Skills:  make([]catalog.RawSkill, 0, len(records)),
		Total:   -1,
		HasMore: decodeBool(envelope["hasMore"]),
		Page:    max(decodeInt(envelope["page"], 0), 0),
	}
	if total := decodeInt(envelope["total"], -1); total >= 0 {
		page.Total = total
	}

	for _, rec := range records {
		raw, err := decodeRecord(rec)
		if err != nil {
			page.Skipped++
			continue
		}
		page.Skills = append(page.Skills, raw)
	}
	return page, nil
}

func decodeRecord(data json.RawMessage) (catalog.RawSkill, error) {
	if err := ValidateRecord(data); err != nil {
		return catalog.RawSkill{}, err
	}
	var w wireSkill
	if err := json.Unmarshal(data, &w); err != nil {
		return catalog.RawSkill{}, err
	}

	raw := catalog.RawSkill{ID: w.ID, Source: w.Source, SkillID: w.SkillID}
	if w.Name != nil {
		raw.Name = *w.Name
	}
	if w.Installs != nil && *w.Installs > 0 {
		raw.Installs = int(math.Min(math.Round(*w.Installs), math.MaxInt32))
	}
	return raw, nil
}

// decodeBool treats anything but a JSON true as false.
func decodeBool(data json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return false
	}
	return b
}

// decodeInt returns fallback unless data is a finite JSON number.
func decodeInt(data json.RawMessage, fallback int) int {
	var f float64
	if len(data) == 0 || string(data) == "null" {
		return fallback
	}
	if err := json.Unmarshal(data, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return int(f)
}
