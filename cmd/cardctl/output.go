package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nattsrk/AnurVCardPro/internal/card"
	"github.com/nattsrk/AnurVCardPro/internal/reconcile"
	"github.com/nattsrk/AnurVCardPro/internal/station"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// render writes v in format. text is used for the text format.
func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

func writeCardView(w io.Writer, v station.CardView) {
	fmt.Fprintf(w, "card %s read #%d at %s (%d records)\n", v.CardID, v.Seq, v.ReadAt.Format("2006-01-02 15:04:05"), v.RecordCount)
	if v.Contents.IsEmpty() {
		fmt.Fprintln(w, "  card is empty")
		return
	}
	writeContents(w, v.Contents)
}

func writeContents(w io.Writer, c card.Contents) {
	if c.Link != nil {
		fmt.Fprintf(w, "link: %s\n", c.Link.URI)
	}
	if p := c.Personal; p != nil {
		fmt.Fprintln(w, "personal:")
		writeField(w, "name", p.Name)
		writeField(w, "phone", p.Phone)
		writeField(w, "email", p.Email)
		writeField(w, "organization", p.Organization)
		writeField(w, "job title", p.JobTitle)
		writeField(w, "address", p.Address)
		writeField(w, "website", p.Website)
		writeField(w, "notes", p.Notes)
		writeWarnings(w, p.Warnings())
	}
	if e := c.Emergency; e != nil {
		fmt.Fprintln(w, "emergency:")
		writeField(w, "name", e.Name)
		writeField(w, "phone", e.Phone)
		writeField(w, "blood group", e.BloodGroup)
		writeField(w, "location", e.Location)
		writeField(w, "relationship", e.Relationship)
		writeField(w, "alternate", e.AlternateContact)
		writeField(w, "conditions", e.MedicalConditions)
		writeField(w, "allergies", e.Allergies)
		writeWarnings(w, e.Warnings())
	}
	for i, p := range c.Policies {
		fmt.Fprintf(w, "policy %d: %s\n", i+1, orDash(p.PolicyNumber))
		writeField(w, "holder", p.Policyholder)
		writeField(w, "insurer", p.Insurer)
		writeField(w, "type", p.PolicyType)
		writeField(w, "premium", p.Premium)
		writeField(w, "sum assured", p.SumAssured)
		writeField(w, "term", strings.Trim(p.StartDate+" - "+p.EndDate, " -"))
		writeField(w, "status", p.EffectiveStatus())
	}
	for _, u := range c.Unclassified {
		fmt.Fprintf(w, "%s: %s\n", u.Label, u.Text)
	}
}

func writeReport(w io.Writer, r reconcile.DiffReport) {
	if !r.NeedsSync && len(r.Anomalies) == 0 {
		fmt.Fprintln(w, "card and backend are in sync")
		return
	}
	for _, p := range r.CardOnly {
		fmt.Fprintf(w, "card only:    %s (%s)\n", p.PolicyNumber, orDash(p.Insurer))
	}
	for _, p := range r.BackendOnly {
		fmt.Fprintf(w, "backend only: %s (%s)\n", p.PolicyNumber, orDash(p.Insurer))
	}
	for _, line := range r.MismatchLines() {
		fmt.Fprintf(w, "mismatch:     %s\n", line)
	}
	for _, a := range r.Anomalies {
		fmt.Fprintf(w, "skipped:      %s\n", a)
	}
}

func writeField(w io.Writer, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(w, "  %-13s %s\n", label+":", value)
}

func writeWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "  warning: %s\n", msg)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
