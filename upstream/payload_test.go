// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/skillscout/catalog"
)

func TestDecodePage_SkipsMalformedRecords(t *testing.T) {
	t.Parallel()

	body := `{"skills":[
		{"source":"acme/demo","skillId":"ok","name":"OK","installs":12.6},
		{"source":"acme/demo"},
		{"source":"","skillId":"blank-source"},
		{"source":"acme/demo","skillId":"neg","installs":-3},
		{"source":"acme/demo","skillId":"badname","name":7},
		"not-an-object",
		{"source":"acme/demo","skillId":"nulls","name":null,"installs":null}
	],"total":"lots","hasMore":"yes","page":2}`

	page, err := decodePage([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, []catalog.RawSkill{
		{Source: "acme/demo", SkillID: "ok", Name: "OK", Installs: 13},
		{Source: "acme/demo", SkillID: "nulls"},
	}, page.Skills)
	assert.Equal(t, 5, page.Skipped)
	assert.Equal(t, -1, page.Total, "non-numeric total is ignored")
	assert.False(t, page.HasMore, "non-boolean hasMore is false")
	assert.Equal(t, 2, page.Page)
}

func TestDecodePage_Envelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"empty skills", `{"skills":[]}`, false},
		{"not json", `oops`, true},
		{"array body", `[]`, true},
		{"missing skills", `{"total":3}`, true},
		{"skills not array", `{"skills":{}}`, true},
		{"null skills", `{"skills":null}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := decodePage([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, errMalformedPayload)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRecord([]byte(`{"source":"a/b","skillId":"c","name":"n","installs":0}`)))
	assert.Error(t, ValidateRecord([]byte(`{"skillId":"c"}`)))
	assert.Error(t, ValidateRecord([]byte(`{"source":"   ","skillId":"c"}`)))
	assert.Error(t, ValidateRecord([]byte(`{"source":"a/b","skillId":"c","installs":"many"}`)))
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	rejected := &Error{Kind: KindRejected, StatusCode: 404, URL: "u", Attempts: 1, Err: errStatus(404)}
	assert.ErrorIs(t, rejected, ErrRejected)
	assert.NotErrorIs(t, rejected, ErrUnavailable)
	assert.Equal(t, "rejected", rejected.Kind.String())
	assert.Equal(t, "upstream request failed (404) after 1 attempt(s): u", rejected.Error())

	bare := &Error{Kind: KindUnavailable, URL: "u"}
	assert.ErrorIs(t, bare, ErrUnavailable)
	assert.Equal(t, "unavailable", bare.Kind.String())
}
