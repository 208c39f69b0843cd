package blog

import (
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"statforge/internal/models"
)

func TestParseFrontmatterComplete(t *testing.T) {
	raw := []byte(`---
slug: intro-to-sem
title: Introduction to SEM
summary: A gentle walkthrough
group: en
category: tutorials
categoryLabel: Tutorials
tags:
  - sem
  - statistics
date: "2026-03-15"
authors:
  - Ada
readingTime: 7 min read
---

# Introduction

Body text here.`)

	fm, body := ParseFrontmatter(raw)

	if fm.Slug != "intro-to-sem" {
		t.Errorf("Slug = %q, want %q", fm.Slug, "intro-to-sem")
	}
	if fm.Title != "Introduction to SEM" {
		t.Errorf("Title = %q, want %q", fm.Title, "Introduction to SEM")
	}
	if fm.Group != "en" {
		t.Errorf("Group = %q, want %q", fm.Group, "en")
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "sem" || fm.Tags[1] != "statistics" {
		t.Errorf("Tags = %v, want [sem statistics]", fm.Tags)
	}
	if fm.Date != "2026-03-15" {
		t.Errorf("Date = %q, want %q", fm.Date, "2026-03-15")
	}
	if fm.ReadingTime != "7 min read" {
		t.Errorf("ReadingTime = %q, want %q", fm.ReadingTime, "7 min read")
	}
	if !strings.Contains(body, "# Introduction") {
		t.Errorf("Body missing heading, got %q", body)
	}
	if strings.Contains(body, "intro-to-sem") {
		t.Errorf("Body should not contain frontmatter, got %q", body)
	}
}

func TestParseFrontmatterMissingBlock(t *testing.T) {
	raw := []byte("# Just a heading\n\nNo metadata at all.")

	fm, body := ParseFrontmatter(raw)

	if fm.Title != "" || fm.Slug != "" {
		t.Errorf("Expected zero frontmatter, got %+v", fm)
	}
	if body != string(raw) {
		t.Errorf("Body = %q, want entire input", body)
	}
}

func TestParseFrontmatterUnterminated(t *testing.T) {
	raw := []byte("---\ntitle: Never closed\n")

	fm, body := ParseFrontmatter(raw)

	if fm.Title != "" {
		t.Errorf("Expected zero frontmatter for unterminated block, got %+v", fm)
	}
	if body != string(raw) {
		t.Errorf("Body = %q, want entire input", body)
	}
}

func TestParseFrontmatterMalformedYAML(t *testing.T) {
	raw := []byte("---\ntitle: [unclosed\n---\nBody survives.")

	fm, body := ParseFrontmatter(raw)

	if fm.Title != "" {
		t.Errorf("Expected zero frontmatter for malformed YAML, got %+v", fm)
	}
	if !strings.Contains(body, "Body survives.") {
		t.Errorf("Body = %q, want it to survive malformed metadata", body)
	}
}

func TestParseFrontmatterDelimiterInsideValue(t *testing.T) {
	raw := []byte("---\ntitle: Pre---post analysis\nsummary: before---after\n---\nBody text.")

	fm, body := ParseFrontmatter(raw)

	if fm.Title != "Pre---post analysis" {
		t.Errorf("Title = %q, want %q", fm.Title, "Pre---post analysis")
	}
	if fm.Summary != "before---after" {
		t.Errorf("Summary = %q, want %q", fm.Summary, "before---after")
	}
	if body != "Body text." {
		t.Errorf("Body = %q, want %q", body, "Body text.")
	}
}

func TestParseFrontmatterHorizontalRuleInBody(t *testing.T) {
	raw := []byte("---\ntitle: Ruled\n---\nIntro.\n\n---\n\nOutro.")

	fm, body := ParseFrontmatter(raw)

	if fm.Title != "Ruled" {
		t.Errorf("Title = %q, want %q", fm.Title, "Ruled")
	}
	if !strings.Contains(body, "---") || !strings.Contains(body, "Outro.") {
		t.Errorf("Body = %q, want the horizontal rule and text after it preserved", body)
	}
}

func TestParseFrontmatterCRLF(t *testing.T) {
	raw := []byte("---\r\ntitle: Windows\r\n---\r\nBody.")

	fm, body := ParseFrontmatter(raw)

	if fm.Title != "Windows" {
		t.Errorf("Title = %q, want %q", fm.Title, "Windows")
	}
	if !strings.Contains(body, "Body.") {
		t.Errorf("Body = %q, want %q", body, "Body.")
	}
}

func TestFrontmatterRoundTrip(t *testing.T) {
	original := models.PostFrontmatter{
		Slug:        "anova-basics",
		Title:       "ANOVA Basics",
		Summary:     "Comparing group means",
		Group:       "en",
		Category:    "tutorials",
		Tags:        []string{"anova", "statistics"},
		Date:        "2026-04-01",
		Authors:     []string{"Ada"},
		ReadingTime: "4 min read",
	}

	encoded, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	raw := append([]byte("---\n"), encoded...)
	raw = append(raw, []byte("---\nBody.")...)

	fm, body := ParseFrontmatter(raw)

	if !reflect.DeepEqual(fm, original) {
		t.Errorf("Round trip changed metadata:\n got %+v\nwant %+v", fm, original)
	}
	if body != "Body." {
		t.Errorf("Body = %q, want %q", body, "Body.")
	}
}

func TestParseFrontmatterOptionalFieldsAbsent(t *testing.T) {
	raw := []byte("---\ntitle: Minimal\n---\nShort body.")

	fm, body := ParseFrontmatter(raw)

	if fm.Title != "Minimal" {
		t.Errorf("Title = %q, want %q", fm.Title, "Minimal")
	}
	if fm.Slug != "" || fm.Group != "" || fm.Date != "" {
		t.Errorf("Absent fields must stay zero, got %+v", fm)
	}
	if fm.Tags != nil {
		t.Errorf("Tags = %v, want nil before defaults are applied", fm.Tags)
	}
	if !strings.Contains(body, "Short body.") {
		t.Errorf("Body = %q, want %q", body, "Short body.")
	}
}
