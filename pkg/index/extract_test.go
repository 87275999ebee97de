package index

import (
	"reflect"
	"testing"

	"github.com/srcmap/srcmap/pkg/lang"
)

// testRegistry is shared across extraction tests; building it compiles
// every grammar and query once.
func testRegistry(t *testing.T) *lang.Registry {
	t.Helper()
	r, err := lang.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func profileFor(t *testing.T, r *lang.Registry, ext string) *lang.Profile {
	t.Helper()
	p, ok := r.ForExtension(ext)
	if !ok {
		t.Fatalf("no profile for extension %q", ext)
	}
	return p
}

// ---------------------------------------------------------------------------
// Extraction per language
// ---------------------------------------------------------------------------

func TestExtractCpp(t *testing.T) {
	r := testRegistry(t)
	src := []byte(`
#include "a.h"
#include <vector>

class Widget {
public:
    int size() const;
};

struct Point { int x; int y; };

void doWork() {
    Widget w;
}
`)

	rec := Extract(profileFor(t, r, ".cpp"), "w.cpp", src)
	if rec.Error != "" {
		t.Fatalf("unexpected error: %s", rec.Error)
	}
	if rec.ImportKey() != "includes" {
		t.Errorf("ImportKey = %q; want includes", rec.ImportKey())
	}
	if want := []string{"a.h", "vector"}; !reflect.DeepEqual(rec.Imports, want) {
		t.Errorf("Imports = %v; want %v", rec.Imports, want)
	}
	if want := []string{"doWork"}; !reflect.DeepEqual(rec.Functions, want) {
		t.Errorf("Functions = %v; want %v", rec.Functions, want)
	}
	if want := []string{"Point", "Widget"}; !reflect.DeepEqual(rec.Classes, want) {
		t.Errorf("Classes = %v; want %v", rec.Classes, want)
	}
}

func TestExtractHeaderParsesAsCpp(t *testing.T) {
	r := testRegistry(t)
	src := []byte("class A {};\n")

	rec := Extract(profileFor(t, r, ".h"), "a.h", src)
	if rec.Error != "" {
		t.Fatalf("unexpected error: %s", rec.Error)
	}
	if want := []string{"A"}; !reflect.DeepEqual(rec.Classes, want) {
		t.Errorf("Classes = %v; want %v", rec.Classes, want)
	}
	if want := []string{}; !reflect.DeepEqual(rec.Imports, want) {
		t.Errorf("Imports = %v; want empty", rec.Imports)
	}
}

func TestExtractPython(t *testing.T) {
	r := testRegistry(t)
	src := []byte(`
import os.path
import json
from collections import OrderedDict

def handler(event):
    return event

class Processor:
    def run(self):
        pass
`)

	rec := Extract(profileFor(t, r, ".py"), "p.py", src)
	if rec.Error != "" {
		t.Fatalf("unexpected error: %s", rec.Error)
	}
	if rec.ImportKey() != "imports" {
		t.Errorf("ImportKey = %q; want imports", rec.ImportKey())
	}
	if want := []string{"collections", "json", "os.path"}; !reflect.DeepEqual(rec.Imports, want) {
		t.Errorf("Imports = %v; want %v", rec.Imports, want)
	}
	if want := []string{"handler", "run"}; !reflect.DeepEqual(rec.Functions, want) {
		t.Errorf("Functions = %v; want %v", rec.Functions, want)
	}
	if want := []string{"Processor"}; !reflect.DeepEqual(rec.Classes, want) {
		t.Errorf("Classes = %v; want %v", rec.Classes, want)
	}
}

func TestExtractGo(t *testing.T) {
	r := testRegistry(t)
	src := []byte(`package demo

import (
	"fmt"
	"strings"
)

type Config struct {
	Name string
}

func Run() {
	fmt.Println(strings.ToUpper("hi"))
}

func (c *Config) Validate() error { return nil }
`)

	rec := Extract(profileFor(t, r, ".go"), "demo.go", src)
	if rec.Error != "" {
		t.Fatalf("unexpected error: %s", rec.Error)
	}
	// Quote delimiters are stripped from import paths like C includes.
	if want := []string{"fmt", "strings"}; !reflect.DeepEqual(rec.Imports, want) {
		t.Errorf("Imports = %v; want %v", rec.Imports, want)
	}
	if want := []string{"Run", "Validate"}; !reflect.DeepEqual(rec.Functions, want) {
		t.Errorf("Functions = %v; want %v", rec.Functions, want)
	}
	if want := []string{"Config"}; !reflect.DeepEqual(rec.Classes, want) {
		t.Errorf("Classes = %v; want %v", rec.Classes, want)
	}
}

func TestExtractTypeScript(t *testing.T) {
	r := testRegistry(t)
	src := []byte(`
import { api } from './api';

interface User {
  id: string;
}

class Session {
  refresh(): void {}
}

function login(u: User): Session {
  return new Session();
}
`)

	rec := Extract(profileFor(t, r, ".ts"), "s.ts", src)
	if rec.Error != "" {
		t.Fatalf("unexpected error: %s", rec.Error)
	}
	if want := []string{"./api"}; !reflect.DeepEqual(rec.Imports, want) {
		t.Errorf("Imports = %v; want %v", rec.Imports, want)
	}
	if want := []string{"login", "refresh"}; !reflect.DeepEqual(rec.Functions, want) {
		t.Errorf("Functions = %v; want %v", rec.Functions, want)
	}
	if want := []string{"Session", "User"}; !reflect.DeepEqual(rec.Classes, want) {
		t.Errorf("Classes = %v; want %v", rec.Classes, want)
	}
}

// ---------------------------------------------------------------------------
// Edge cases
// ---------------------------------------------------------------------------

func TestExtractEmptyFile(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		name    string
		content []byte
	}{
		{"zero bytes", []byte{}},
		{"nil", nil},
		{"whitespace only", []byte(" \n\t  \n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(profileFor(t, r, ".cpp"), "empty.cpp", tt.content)
			if rec.Error != ErrEmptyFile {
				t.Errorf("Error = %q; want %q", rec.Error, ErrEmptyFile)
			}
			if len(rec.Imports) != 0 || len(rec.Functions) != 0 || len(rec.Classes) != 0 {
				t.Errorf("error record must carry empty lists: %+v", rec)
			}
		})
	}
}

func TestExtractMalformedInputIsTolerated(t *testing.T) {
	r := testRegistry(t)
	// Truncated mid-token: the parser still yields a best-effort tree and
	// the queries match whatever nodes exist.
	src := []byte(`#include "a.h"
class Broken {
    void incompl
`)

	rec := Extract(profileFor(t, r, ".cpp"), "broken.cpp", src)
	if rec.Error != "" {
		t.Fatalf("malformed input must not produce an error record, got %q", rec.Error)
	}
	if want := []string{"a.h"}; !reflect.DeepEqual(rec.Imports, want) {
		t.Errorf("Imports = %v; want %v", rec.Imports, want)
	}
}

func TestExtractDeduplicatesCaptures(t *testing.T) {
	r := testRegistry(t)
	src := []byte(`
#include "a.h"
#include "a.h"
#include <a.h>
`)

	rec := Extract(profileFor(t, r, ".cpp"), "dup.cpp", src)
	if want := []string{"a.h"}; !reflect.DeepEqual(rec.Imports, want) {
		t.Errorf("quoted/angled duplicates must collapse: %v", rec.Imports)
	}
}
