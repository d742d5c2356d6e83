//go:build sqlite

package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"auxesis/internal/model"
	"auxesis/internal/stats"
)

func TestSQLiteSessionRoundTrip(t *testing.T) {
	origWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	workdir := t.TempDir()
	if err := os.Chdir(workdir); err != nil {
		t.Fatalf("chdir tempdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origWD)
	})
	dbPath := filepath.Join(workdir, "auxesis.db")
	ctx := context.Background()

	out, err := captureStdout(func() error {
		return run(ctx, []string{"new", "-store", "sqlite", "-db-path", dbPath, "-seed", "42", "-save"})
	})
	if err != nil {
		t.Fatalf("new command: %v", err)
	}
	if !strings.Contains(out, "genome_id=0") {
		t.Fatalf("expected the first genome id in output:\n%s", out)
	}
	sessionID := fieldValue(t, out, "session_id")

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected sqlite db at %s: %v", dbPath, err)
	}

	out, err = captureStdout(func() error {
		return run(ctx, []string{"info", "-store", "sqlite", "-db-path", dbPath, "-session", sessionID, "-id", "0"})
	})
	if err != nil {
		t.Fatalf("info command: %v", err)
	}
	for _, want := range []string{"genome_id=0", "connections=2 enabled=2", ">> NODES"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in info output:\n%s", want, out)
		}
	}

	out, err = captureStdout(func() error {
		return run(ctx, []string{"mutate", "-store", "sqlite", "-db-path", dbPath, "-session", sessionID, "-id", "0", "-ops", "add_node", "-save"})
	})
	if err != nil {
		t.Fatalf("mutate command: %v", err)
	}
	for _, want := range []string{
		"round=1 hidden=1 connections=4 enabled=3 max_innovation=5",
		"saved genome_id=0",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in mutate output:\n%s", want, out)
		}
	}

	out, err = captureStdout(func() error {
		return run(ctx, []string{"info", "-store", "sqlite", "-db-path", dbPath, "-session", sessionID, "-id", "0"})
	})
	if err != nil {
		t.Fatalf("info after mutate: %v", err)
	}
	if !strings.Contains(out, "connections=4 enabled=3 disabled=1") {
		t.Fatalf("expected the split to persist, got:\n%s", out)
	}

	out, err = captureStdout(func() error {
		return run(ctx, []string{"mate", "-store", "sqlite", "-db-path", dbPath, "-session", sessionID, "-a", "0", "-b", "0", "-save"})
	})
	if err != nil {
		t.Fatalf("mate command: %v", err)
	}
	for _, want := range []string{"child_id=1 parents=0,0", "connections=4", "saved=true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in mate output:\n%s", want, out)
		}
	}

	out, err = captureStdout(func() error {
		return run(ctx, []string{"distance", "-store", "sqlite", "-db-path", dbPath, "-session", sessionID, "-a", "0", "-b", "1"})
	})
	if err != nil {
		t.Fatalf("distance command: %v", err)
	}
	if !strings.Contains(out, "a=0 b=1 distance=") {
		t.Fatalf("expected a distance line, got:\n%s", out)
	}

	out, err = captureStdout(func() error {
		return run(ctx, []string{"sessions", "-store", "sqlite", "-db-path", dbPath})
	})
	if err != nil {
		t.Fatalf("sessions command: %v", err)
	}
	for _, want := range []string{"session_id=" + sessionID, "morphology=xor-v1", "generation=0 genomes=2 seed=42"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in sessions output:\n%s", want, out)
		}
	}

	if err := run(ctx, []string{"new", "-store", "sqlite", "-db-path", dbPath, "-session", sessionID, "-morph", "sine-fit-v1"}); err == nil || !strings.Contains(err.Error(), "morphology") {
		t.Fatalf("expected a morphology conflict, got %v", err)
	}
}

func TestSQLiteInitIsIdempotent(t *testing.T) {
	workdir := t.TempDir()
	dbPath := filepath.Join(workdir, "auxesis.db")
	ctx := context.Background()

	if _, err := captureStdout(func() error {
		return run(ctx, []string{"new", "-store", "sqlite", "-db-path", dbPath, "-seed", "7", "-save"})
	}); err != nil {
		t.Fatalf("new command: %v", err)
	}

	out, err := captureStdout(func() error {
		return run(ctx, []string{"init", "-store", "sqlite", "-db-path", dbPath})
	})
	if err != nil {
		t.Fatalf("init command: %v", err)
	}
	if !strings.Contains(out, "initialized store=sqlite") {
		t.Fatalf("unexpected init output:\n%s", out)
	}

	out, err = captureStdout(func() error {
		return run(ctx, []string{"sessions", "-store", "sqlite", "-db-path", dbPath})
	})
	if err != nil {
		t.Fatalf("sessions command: %v", err)
	}
	if !strings.Contains(out, "genomes=1") {
		t.Fatalf("expected the archived session to survive init, got:\n%s", out)
	}
}

func TestSQLiteTrialArchivesGenomes(t *testing.T) {
	origWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	workdir := t.TempDir()
	if err := os.Chdir(workdir); err != nil {
		t.Fatalf("chdir tempdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origWD)
	})
	dbPath := filepath.Join(workdir, "auxesis.db")
	ctx := context.Background()

	out, err := captureStdout(func() error {
		return run(ctx, []string{
			"trial",
			"-store", "sqlite",
			"-db-path", dbPath,
			"-seed", "33",
			"-genomes", "3",
			"-gens", "2",
			"-archive",
		})
	})
	if err != nil {
		t.Fatalf("trial command: %v", err)
	}
	if !strings.Contains(out, "archived=true") {
		t.Fatalf("expected the trial to archive genomes, got:\n%s", out)
	}

	entries, err := stats.ListTrialIndex("artifacts")
	if err != nil {
		t.Fatalf("list trial index: %v", err)
	}
	if len(entries) != 1 || entries[0].Genomes != 3 {
		t.Fatalf("unexpected index entries: %+v", entries)
	}

	out, err = captureStdout(func() error {
		return run(ctx, []string{"sessions", "-store", "sqlite", "-db-path", dbPath, "-json"})
	})
	if err != nil {
		t.Fatalf("sessions command: %v", err)
	}
	var sessions []model.SessionRecord
	if err := json.Unmarshal([]byte(out), &sessions); err != nil {
		t.Fatalf("decode sessions: %v\n%s", err, out)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one archived session, got %d", len(sessions))
	}
	if sessions[0].Genomes != 3 || sessions[0].Generation != 2 || sessions[0].Seed != 33 {
		t.Fatalf("unexpected session record: %+v", sessions[0])
	}
}

func fieldValue(t *testing.T, out, key string) string {
	t.Helper()
	for _, field := range strings.Fields(out) {
		if strings.HasPrefix(field, key+"=") {
			return strings.TrimPrefix(field, key+"=")
		}
	}
	t.Fatalf("missing %s in output: %q", key, out)
	return ""
}
