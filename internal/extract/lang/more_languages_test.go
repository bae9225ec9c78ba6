package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codegraph/internal/extract"
)

// Test Plan for the remaining parseable languages:
// - Java: members, imports and the package declaration extract; same-file
//   method calls resolve; declared return types are recorded
// - C: preprocessor, struct and typedef declarations extract; calls resolve
//   against static functions
// - Ruby: constructor detection, superclass edges, require imports
// - PHP: class members, namespace, member calls resolving in-file
// - Lua: qualified declarations, require imports, local call resolution

const javaSample = `package app;

import java.util.List;

public class Repo {
    private int count;

    public Repo() {}

    public int size() {
        return helper(count);
    }

    private int helper(int n) {
        return n + 1;
    }
}
`

func TestJava_Extraction(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "java", "Repo.java", javaSample)

	assert.Equal(t, extract.KindNamespace, symbolByName(t, res.Symbols, "app").Kind)

	list := symbolByName(t, res.Symbols, "List")
	assert.Equal(t, extract.KindImport, list.Kind)
	assert.Equal(t, "java.util.List", list.Metadata["module"])

	repo := symbolByName(t, res.Symbols, "Repo")
	assert.Equal(t, extract.KindClass, repo.Kind)
	assert.Equal(t, extract.VisibilityPublic, repo.Visibility)

	count := symbolByName(t, res.Symbols, "count")
	assert.Equal(t, extract.KindField, count.Kind)
	assert.Equal(t, repo.ID, count.ParentID)
	assert.Equal(t, extract.VisibilityPrivate, count.Visibility)

	size := symbolByName(t, res.Symbols, "size")
	helper := symbolByName(t, res.Symbols, "helper")

	var resolved *extract.Relationship
	for i := range res.Relationships {
		if res.Relationships[i].Kind == extract.RelCalls {
			resolved = &res.Relationships[i]
		}
	}
	require.NotNil(t, resolved)
	assert.Equal(t, size.ID, resolved.FromSymbolID)
	assert.Equal(t, helper.ID, resolved.ToSymbolID)
	assert.Empty(t, res.PendingRelationships)

	assert.Equal(t, "int", res.Types[size.ID].ResolvedType)
}

const cSample = `#include <stdio.h>
#include "util.h"

#define MAX_LEN 100

struct point {
    int x;
    int y;
};

typedef struct point point_t;

static int add(int a, int b) {
    return a + b;
}

int main(void) {
    printf("%d\n", add(1, 2));
    return 0;
}
`

func TestC_Extraction(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "c", "main.c", cSample)

	stdio := symbolByName(t, res.Symbols, "stdio")
	assert.Equal(t, extract.KindImport, stdio.Kind)
	assert.Equal(t, "stdio.h", stdio.Metadata["module"])

	assert.Equal(t, extract.KindConstant, symbolByName(t, res.Symbols, "MAX_LEN").Kind)

	point := symbolByName(t, res.Symbols, "point")
	assert.Equal(t, extract.KindStruct, point.Kind)
	assert.Equal(t, point.ID, symbolByName(t, res.Symbols, "x").ParentID)

	assert.Equal(t, extract.KindType, symbolByName(t, res.Symbols, "point_t").Kind)

	add := symbolByName(t, res.Symbols, "add")
	main := symbolByName(t, res.Symbols, "main")

	var resolved *extract.Relationship
	for i := range res.Relationships {
		if res.Relationships[i].Kind == extract.RelCalls {
			resolved = &res.Relationships[i]
		}
	}
	require.NotNil(t, resolved, "printf is deny-listed, add resolves")
	assert.Equal(t, main.ID, resolved.FromSymbolID)
	assert.Equal(t, add.ID, resolved.ToSymbolID)

	assert.Equal(t, "int", res.Types[add.ID].ResolvedType)
}

const rubySample = `require "json"

MAX = 10

class Animal
  def initialize(name)
    @name = name
  end

  def speak
    format_name(@name)
  end
end

class Dog < Animal
end

def format_name(n)
  n.to_s
end
`

func TestRuby_Extraction(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "ruby", "animal.rb", rubySample)

	json := symbolByName(t, res.Symbols, "json")
	assert.Equal(t, extract.KindImport, json.Kind)

	assert.Equal(t, extract.KindConstant, symbolByName(t, res.Symbols, "MAX").Kind)

	animal := symbolByName(t, res.Symbols, "Animal")
	init := symbolByName(t, res.Symbols, "initialize")
	assert.Equal(t, extract.KindConstructor, init.Kind)
	assert.Equal(t, animal.ID, init.ParentID)

	assert.Equal(t, extract.KindFunction, symbolByName(t, res.Symbols, "format_name").Kind,
		"top-level def is a function, not a method")

	dog := symbolByName(t, res.Symbols, "Dog")
	var extends *extract.Relationship
	var calls *extract.Relationship
	for i := range res.Relationships {
		switch res.Relationships[i].Kind {
		case extract.RelExtends:
			extends = &res.Relationships[i]
		case extract.RelCalls:
			calls = &res.Relationships[i]
		}
	}
	require.NotNil(t, extends)
	assert.Equal(t, dog.ID, extends.FromSymbolID)
	assert.Equal(t, animal.ID, extends.ToSymbolID)

	require.NotNil(t, calls, "speak resolves format_name in-file")
	assert.Equal(t, symbolByName(t, res.Symbols, "speak").ID, calls.FromSymbolID)
}

const phpSample = `<?php
namespace App;

use App\Models\User;

class Repo {
    private $items;

    public function find($id) {
        return $this->lookup($id);
    }

    private function lookup($id) {
        return count($this->items);
    }
}

function make_repo() {
    return new Repo();
}
`

func TestPHP_Extraction(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "php", "repo.php", phpSample)

	assert.Equal(t, extract.KindNamespace, symbolByName(t, res.Symbols, "App").Kind)

	user := symbolByName(t, res.Symbols, "User")
	assert.Equal(t, extract.KindImport, user.Kind)

	repo := symbolByName(t, res.Symbols, "Repo")
	items := symbolByName(t, res.Symbols, "items")
	assert.Equal(t, extract.KindProperty, items.Kind)
	assert.Equal(t, repo.ID, items.ParentID)

	find := symbolByName(t, res.Symbols, "find")
	assert.Equal(t, extract.VisibilityPublic, find.Visibility)
	lookup := symbolByName(t, res.Symbols, "lookup")
	assert.Equal(t, extract.VisibilityPrivate, lookup.Visibility)

	fromTo := map[string]string{}
	for _, rel := range res.Relationships {
		if rel.Kind == extract.RelCalls {
			fromTo[rel.FromSymbolID] = rel.ToSymbolID
		}
	}
	assert.Equal(t, lookup.ID, fromTo[find.ID], "$this->lookup resolves in-file")
	assert.Equal(t, repo.ID, fromTo[symbolByName(t, res.Symbols, "make_repo").ID],
		"new Repo() resolves against the class")
}

const luaSample = `local json = require("json")

MAX = 10

local function helper(n)
  return n + 1
end

function M.process(x)
  return helper(x)
end
`

func TestLua_Extraction(t *testing.T) {
	t.Parallel()

	res := extractSource(t, "lua", "mod.lua", luaSample)

	json := symbolByName(t, res.Symbols, "json")
	assert.Equal(t, extract.KindImport, json.Kind)
	assert.Equal(t, "json", json.Metadata["module"])

	helper := symbolByName(t, res.Symbols, "helper")
	assert.Equal(t, extract.KindFunction, helper.Kind)

	process := symbolByName(t, res.Symbols, "process")
	assert.Equal(t, extract.KindMethod, process.Kind, "dotted name declares a method")
	assert.Equal(t, "M.process", process.Metadata["qualified_name"])

	var resolved *extract.Relationship
	for i := range res.Relationships {
		if res.Relationships[i].Kind == extract.RelCalls {
			resolved = &res.Relationships[i]
		}
	}
	require.NotNil(t, resolved)
	assert.Equal(t, process.ID, resolved.FromSymbolID)
	assert.Equal(t, helper.ID, resolved.ToSymbolID)

	assert.Empty(t, res.Types, "no type inference without annotations")
}

func TestZig_ExtractsWithoutError(t *testing.T) {
	t.Parallel()

	source := `const std = @import("std");

pub fn add(a: i32, b: i32) i32 {
    return a + b;
}
`
	res := extractSource(t, "zig", "add.zig", source)
	assert.NotEmpty(t, res.Symbols)
}
