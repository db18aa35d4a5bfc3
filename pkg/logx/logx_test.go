package logx

import (
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("planner")
	if logger.GetComponent() != "planner" {
		t.Errorf("Expected component 'planner', got %s", logger.GetComponent())
	}
}

func TestSetDebug_AllDomains(t *testing.T) {
	defer SetDebug(false, nil)

	SetDebug(true, nil)
	if !IsDebugEnabled("planner") {
		t.Error("Expected debug enabled for all domains")
	}
	if !IsDebugEnabled("repo") {
		t.Error("Expected debug enabled for all domains")
	}
}

func TestSetDebug_DomainFiltering(t *testing.T) {
	defer SetDebug(false, nil)

	SetDebug(true, []string{"planner", "repo"})
	if !IsDebugEnabled("planner") {
		t.Error("Expected debug enabled for planner domain")
	}
	if IsDebugEnabled("goalstore") {
		t.Error("Expected debug disabled for unlisted domain")
	}
}

func TestSetDebug_Disabled(t *testing.T) {
	defer SetDebug(false, nil)

	SetDebug(false, nil)
	if IsDebugEnabled("planner") {
		t.Error("Expected debug disabled")
	}
}

func TestWrap_NilError(t *testing.T) {
	if err := Wrap(nil, "context"); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestWrap_Error(t *testing.T) {
	err := Wrap(Errorf("boom"), "setup")
	if err == nil {
		t.Fatal("Expected wrapped error")
	}
	if err.Error() != "setup: boom" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}
