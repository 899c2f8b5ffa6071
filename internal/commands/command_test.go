package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/apolo/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{"move 3f2a done", TypeMove},
		{"undo", TypeUndo},
		{"/del 3f2a", TypeDelete},
		{"sub 3f2a buy stamps", TypeSub},
		{"tick 3f2a 2", TypeTick},
		{"desc 3f2a", TypeDesc},
		{"analyze 3f2a", TypeAnalyze},
		{"remind birthday 1990-04-21 Ana Maria", TypeRemind},
		{"forget 9c1e", TypeForget},
		{"cat Deep Work #1d4ed8", TypeCategory},
		{"chat what should I focus on?", TypeChat},
		{"NEW", TypeNew},
		{"write a haiku about rain", TypeWrite},
		{"image a golden owl", TypeImage},
		{"search weather in Madrid", TypeSearch},
		{"theme Midnight", TypeTheme},
		{"accent ruby", TypeAccent},
		{"lang EN", TypeLang},
		{"font jetbrains mono", TypeFont},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddWithDueDate(t *testing.T) {
	cmd, err := Parse("add pay rent @2026-03-01")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Title != "pay rent" || cmd.Add.Due != "2026-03-01" {
		t.Fatalf("unexpected add args: %+v", *cmd.Add)
	}

	cmd, err = Parse("add email @bob about lunch")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Title != "email @bob about lunch" || cmd.Add.Due != "" {
		t.Fatalf("only a trailing @token is a date: %+v", *cmd.Add)
	}
}

func TestParseArguments(t *testing.T) {
	cmd, _ := Parse("move 3f2a DOING")
	if cmd.Move.Target != "3f2a" || cmd.Move.Status != model.StatusDoing {
		t.Fatalf("unexpected move args: %+v", *cmd.Move)
	}

	cmd, _ = Parse("desc 3f2a  call   the bank first")
	if cmd.Desc.Target != "3f2a" || cmd.Desc.Text != "call   the bank first" {
		t.Fatalf("unexpected desc args: %+v", *cmd.Desc)
	}

	cmd, _ = Parse("remind event 2026-05-02 Dentist appointment")
	if cmd.Remind.Kind != model.ReminderEvent || cmd.Remind.Date != "2026-05-02" || cmd.Remind.Name != "Dentist appointment" {
		t.Fatalf("unexpected remind args: %+v", *cmd.Remind)
	}

	cmd, _ = Parse("cat Deep Work #1d4ed8")
	if cmd.Category.Name != "Deep Work" || cmd.Category.Color != "#1d4ed8" {
		t.Fatalf("unexpected category args: %+v", *cmd.Category)
	}

	cmd, _ = Parse("tick 3f2a 2")
	if cmd.Tick.Index != 2 {
		t.Fatalf("unexpected tick index: %d", cmd.Tick.Index)
	}
}

func TestParseCanonicalizesSettings(t *testing.T) {
	cases := map[string]string{
		"theme Midnight":      "midnight",
		"lang EN":             "en",
		"accent ruby":         "#e11d48",
		"accent #abc":         "#abc",
		"font jetbrains mono": "JetBrains Mono",
	}
	for in, want := range cases {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		if cmd.Setting.Value != want {
			t.Fatalf("parse %q value = %q, want %q", in, cmd.Setting.Value, want)
		}
	}
}

func TestParseRejectsInvalidArguments(t *testing.T) {
	inputs := []string{
		"add",
		"add @2026-03-01",
		"add rent @tomorrow",
		"move 3f2a archived",
		"move 3f2a",
		"del",
		"sub 3f2a",
		"tick 3f2a zero",
		"tick 3f2a 0",
		"remind party 2026-01-01 Bob",
		"remind event 01/02/2026 Bob",
		"remind event 2026-01-01",
		"cat Work blue",
		"chat",
		"theme neon",
		"lang tlh",
		"accent plaid",
		"font Comic Sans",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument error, got %v", in, err)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "/", " / "} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteDispatchesSharedArgumentShapes(t *testing.T) {
	var got []string
	handlers := Handlers{
		Delete:  func(a TargetArgs) (Result, error) { got = append(got, "del:"+a.Target); return Result{}, nil },
		Analyze: func(a TargetArgs) (Result, error) { got = append(got, "analyze:"+a.Target); return Result{}, nil },
		Forget:  func(a TargetArgs) (Result, error) { got = append(got, "forget:"+a.Target); return Result{}, nil },
		Undo:    func() (Result, error) { got = append(got, "undo"); return Result{}, nil },
	}
	for _, in := range []string{"del a1", "analyze b2", "forget c3", "undo"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if _, err := Execute(cmd, handlers); err != nil {
			t.Fatalf("execute %q: %v", in, err)
		}
	}
	want := []string{"del:a1", "analyze:b2", "forget:c3", "undo"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dispatch[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	for _, in := range []string{"search tasks", "new"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		_, err = Execute(cmd, Handlers{})
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
			t.Fatalf("expected missing handler error, got %v", err)
		}
	}
}

func TestExecuteRejectsCommandWithoutArgs(t *testing.T) {
	_, err := Execute(Command{Type: TypeMove}, Handlers{Move: func(MoveArgs) (Result, error) { return Result{}, nil }})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument error, got %v", err)
	}
}
