package entity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const narrative = `At 3:11 AM the antivirus flagged logi_loader.dll on staging-3.
Matt was paged and opened the AV console from the west wing. By 6:12 AM
Kiera had joined him; matt confirmed a VPN tunnel to corp-vpn3 and traced
DNS requests to cdn.nodeflux.ai. Later that Monday sharris reviewed the
Jenkins build logs.`

func findEntity(entities []Entity, entityType, value string) (Entity, bool) {
	for _, e := range entities {
		if e.Type == entityType && e.Value == value {
			return e, true
		}
	}
	return Entity{}, false
}

func TestExtractDeduplicatesWithCounts(t *testing.T) {
	entities := Extract(narrative)

	matt, ok := findEntity(entities, "PERSON", "Matt")
	require.True(t, ok, "expected Matt among %v", entities)
	assert.Equal(t, 2, matt.Count, "case-insensitive mentions collapse into one entity")
	assert.InDelta(t, 0.9, matt.Confidence, 1e-9)

	// People are title-cased, everything else stays lowercase.
	_, ok = findEntity(entities, "SYSTEM", "staging-3")
	assert.True(t, ok)
	_, ok = findEntity(entities, "SECURITY", "antivirus")
	assert.True(t, ok)
	_, ok = findEntity(entities, "TIME", "3:11 am")
	assert.True(t, ok)
	_, ok = findEntity(entities, "NETWORK", "dns")
	assert.True(t, ok)
	_, ok = findEntity(entities, "LOCATION", "west wing")
	assert.True(t, ok)
}

func TestExtractEmptyText(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("Nothing here matches any known incident entity."))
}

func TestRelationships(t *testing.T) {
	entities := Extract(narrative)
	rels := Relationships(entities)

	has := func(source, target, relType string) bool {
		for _, r := range rels {
			if r.Source == source && r.Target == target && r.Type == relType {
				return true
			}
		}
		return false
	}

	assert.True(t, has("Matt", "staging-3", "ACCESSED"))
	assert.True(t, has("Kiera", "west wing", "WORKED_IN"))
	assert.True(t, has("3:11 am", "logi_loader.dll", "EVENT_AT"))
	assert.True(t, has("antivirus", "corp-vpn3", "PROTECTS"))

	// sharris operates systems but is not on site.
	assert.True(t, has("Sharris", "jenkins", "ACCESSED"))
	assert.False(t, has("Sharris", "west wing", "WORKED_IN"))
}

func TestRelationshipsWithoutAnchors(t *testing.T) {
	// No 3:11 mention and no defense entity means no EVENT_AT or PROTECTS.
	entities := Extract("At 6:12 AM Dave checked the subnet from the third floor.")
	for _, r := range Relationships(entities) {
		assert.NotEqual(t, "EVENT_AT", r.Type)
		assert.NotEqual(t, "PROTECTS", r.Type)
	}
}

func TestWriteReport(t *testing.T) {
	entities := Extract(narrative)
	rels := Relationships(entities)
	path := filepath.Join(t.TempDir(), "entities.json")

	require.NoError(t, WriteReport(path, "incident_story.txt", entities, rels))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report Report
	require.NoError(t, json.Unmarshal(data, &report))

	assert.Equal(t, "incident_story.txt", report.Metadata.SourceFile)
	assert.Equal(t, "pattern_matching", report.Metadata.ExtractionMethod)
	assert.Equal(t, len(entities), report.Metadata.TotalEntities)
	assert.Equal(t, len(rels), report.Metadata.TotalRelationships)
	assert.Len(t, report.Entities, len(entities))
	assert.Len(t, report.Relationships, len(rels))
}
