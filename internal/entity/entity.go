// Package entity is a bonus pattern-matching extractor for the incident
// narrative: it pulls named entities and derives coarse relationships
// between them, without any model call.
package entity

import (
	"encoding/json"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Entity is one extracted mention, deduplicated, with its occurrence count.
type Entity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Count      int     `json:"count"`
}

// Relationship links two extracted entities.
type Relationship struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Type       string  `json:"relationship_type"`
	Confidence float64 `json:"confidence"`
}

// Report is the JSON document written by WriteReport.
type Report struct {
	Metadata      ReportMetadata `json:"metadata"`
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

type ReportMetadata struct {
	SourceFile         string `json:"source_file"`
	ExtractionTime     string `json:"extraction_timestamp"`
	TotalEntities      int    `json:"total_entities"`
	TotalRelationships int    `json:"total_relationships"`
	ExtractionMethod   string `json:"extraction_method"`
}

type pattern struct {
	entityType string
	confidence float64
	re         *regexp.Regexp
}

var patterns = []pattern{
	{"PERSON", 0.9, regexp.MustCompile(`(?i)\b(?:matt|kiera|ed|dave|sharris|jmalik|junaid malik)\b`)},
	{"SYSTEM", 0.9, regexp.MustCompile(`(?i)\b(?:staging-3|corp-vpn3|corp-fs02|sw-07b|jenkins|buildconfig\.yaml|logi_loader\.dll|q2_pipeline|marketing_campaign_2020)\b`)},
	{"TIME", 0.9, regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|\d{1,2}:\d{2}\s*(?:am|pm))\b`)},
	{"LOCATION", 0.8, regexp.MustCompile(`(?i)\b(?:west wing|third floor|sales area|marketing workstations|training pc|dev servers|lab servers)\b`)},
	{"SECURITY", 0.8, regexp.MustCompile(`(?i)\b(?:malware|antivirus|av console|heuristic scan|endpoint protection|vpn tunnel|dlp|breach|compromise)\b`)},
	{"NETWORK", 0.8, regexp.MustCompile(`(?i)\b(?:subnet|vlan|wan|dns|smb|https|cdn\.nodeflux\.ai|updates-status-sync\.live|metrics\.windowupdate\.io)\b`)},
}

// Extract finds all pattern matches in the narrative and returns one entity
// per distinct value, with a mention count.
func Extract(text string) []Entity {
	var entities []Entity
	for _, p := range patterns {
		matches := p.re.FindAllString(text, -1)
		counts := map[string]int{}
		for _, m := range matches {
			counts[strings.ToLower(m)]++
		}
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			value := k
			if p.entityType == "PERSON" {
				value = titleCase(k)
			}
			entities = append(entities, Entity{
				Type:       p.entityType,
				Value:      value,
				Confidence: p.confidence,
				Count:      counts[k],
			})
		}
	}
	return entities
}

// Relationships derives coarse links between the extracted entities using
// the same heuristics the narrative supports: who touched which system,
// where people worked, what happened at the initial compromise time, and
// which defenses cover which systems.
func Relationships(entities []Entity) []Relationship {
	byType := map[string][]Entity{}
	for _, e := range entities {
		byType[e.Type] = append(byType[e.Type], e)
	}

	operators := map[string]bool{"matt": true, "kiera": true, "sharris": true}
	onSite := map[string]bool{"matt": true, "kiera": true}

	var rels []Relationship
	for _, person := range byType["PERSON"] {
		lower := strings.ToLower(person.Value)
		if operators[lower] {
			for _, system := range byType["SYSTEM"] {
				rels = append(rels, Relationship{person.Value, system.Value, "ACCESSED", 0.7})
			}
		}
		if onSite[lower] {
			for _, loc := range byType["LOCATION"] {
				rels = append(rels, Relationship{person.Value, loc.Value, "WORKED_IN", 0.8})
			}
		}
	}
	for _, t := range byType["TIME"] {
		if !strings.Contains(t.Value, "3:11") {
			continue
		}
		for _, system := range byType["SYSTEM"] {
			rels = append(rels, Relationship{t.Value, system.Value, "EVENT_AT", 0.9})
		}
	}
	defenses := map[string]bool{"malware": true, "antivirus": true, "av console": true}
	for _, sec := range byType["SECURITY"] {
		if !defenses[strings.ToLower(sec.Value)] {
			continue
		}
		for _, system := range byType["SYSTEM"] {
			rels = append(rels, Relationship{sec.Value, system.Value, "PROTECTS", 0.6})
		}
	}
	return rels
}

// WriteReport saves entities and relationships as an indented JSON file.
func WriteReport(path, sourceFile string, entities []Entity, rels []Relationship) error {
	report := Report{
		Metadata: ReportMetadata{
			SourceFile:         sourceFile,
			ExtractionTime:     time.Now().Format(time.RFC3339),
			TotalEntities:      len(entities),
			TotalRelationships: len(rels),
			ExtractionMethod:   "pattern_matching",
		},
		Entities:      entities,
		Relationships: rels,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
