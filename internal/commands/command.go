package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/apolo/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeMove     Type = "move"
	TypeUndo     Type = "undo"
	TypeDelete   Type = "del"
	TypeSub      Type = "sub"
	TypeTick     Type = "tick"
	TypeDesc     Type = "desc"
	TypeAnalyze  Type = "analyze"
	TypeRemind   Type = "remind"
	TypeForget   Type = "forget"
	TypeCategory Type = "cat"
	TypeChat     Type = "chat"
	TypeNew      Type = "new"
	TypeWrite    Type = "write"
	TypeImage    Type = "image"
	TypeSearch   Type = "search"
	TypeTheme    Type = "theme"
	TypeAccent   Type = "accent"
	TypeLang     Type = "lang"
	TypeFont     Type = "font"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
	Due   string
}

type MoveArgs struct {
	Target string
	Status model.Status
}

// TargetArgs names one task or reminder by id or unique id prefix.
type TargetArgs struct {
	Target string
}

type SubArgs struct {
	Target string
	Title  string
}

// TickArgs addresses a subtask by its 1-based position.
type TickArgs struct {
	Target string
	Index  int
}

type DescArgs struct {
	Target string
	Text   string
}

type RemindArgs struct {
	Kind model.ReminderType
	Date string
	Name string
}

type CategoryArgs struct {
	Name  string
	Color string
}

type TextArgs struct {
	Text string
}

// SettingArgs carries an already canonicalized preference value.
type SettingArgs struct {
	Value string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Move     *MoveArgs
	Target   *TargetArgs
	Sub      *SubArgs
	Tick     *TickArgs
	Desc     *DescArgs
	Remind   *RemindArgs
	Category *CategoryArgs
	Text     *TextArgs
	Setting  *SettingArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	head, rest := splitFirst(raw)
	head = strings.ToLower(head)
	cmd := Command{Type: Type(head), Raw: input}

	switch cmd.Type {
	case TypeAdd:
		return parseAdd(cmd, rest)
	case TypeMove:
		return parseMove(cmd, rest)
	case TypeUndo, TypeNew:
		return cmd, nil
	case TypeDelete, TypeAnalyze, TypeForget:
		return parseTarget(cmd, rest)
	case TypeSub:
		return parseSub(cmd, rest)
	case TypeTick:
		return parseTick(cmd, rest)
	case TypeDesc:
		return parseDesc(cmd, rest)
	case TypeRemind:
		return parseRemind(cmd, rest)
	case TypeCategory:
		return parseCategory(cmd, rest)
	case TypeChat, TypeWrite, TypeImage, TypeSearch:
		return parseText(cmd, rest)
	case TypeTheme, TypeAccent, TypeLang, TypeFont:
		return parseSetting(cmd, rest)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(cmd Command, rest string) (Command, error) {
	args := AddArgs{Title: rest}
	fields := strings.Fields(rest)
	if n := len(fields); n > 0 && strings.HasPrefix(fields[n-1], "@") {
		due := strings.TrimPrefix(fields[n-1], "@")
		if _, err := model.ParseDate(due); err != nil {
			return Command{}, invalid("add due date must be @YYYY-MM-DD, got %q", fields[n-1])
		}
		args.Due = due
		args.Title = strings.TrimSpace(strings.Join(fields[:n-1], " "))
	}
	if args.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	cmd.Add = &args
	return cmd, nil
}

func parseMove(cmd Command, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return Command{}, invalid("move requires a task id and a status")
	}
	status := model.Status(strings.ToLower(fields[1]))
	if !status.IsValid() {
		return Command{}, invalid("unknown status %q (todo, doing, done)", fields[1])
	}
	cmd.Move = &MoveArgs{Target: fields[0], Status: status}
	return cmd, nil
}

func parseTarget(cmd Command, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) != 1 {
		return Command{}, invalid("%s requires one id", cmd.Type)
	}
	cmd.Target = &TargetArgs{Target: fields[0]}
	return cmd, nil
}

func parseSub(cmd Command, rest string) (Command, error) {
	target, title := splitFirst(rest)
	if target == "" || title == "" {
		return Command{}, invalid("sub requires a task id and a title")
	}
	cmd.Sub = &SubArgs{Target: target, Title: title}
	return cmd, nil
}

func parseTick(cmd Command, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return Command{}, invalid("tick requires a task id and a subtask number")
	}
	idx, err := strconv.Atoi(fields[1])
	if err != nil || idx < 1 {
		return Command{}, invalid("subtask number must be a positive integer, got %q", fields[1])
	}
	cmd.Tick = &TickArgs{Target: fields[0], Index: idx}
	return cmd, nil
}

func parseDesc(cmd Command, rest string) (Command, error) {
	target, text := splitFirst(rest)
	if target == "" {
		return Command{}, invalid("desc requires a task id")
	}
	cmd.Desc = &DescArgs{Target: target, Text: text}
	return cmd, nil
}

func parseRemind(cmd Command, rest string) (Command, error) {
	kind, rest := splitFirst(rest)
	date, name := splitFirst(rest)
	if kind == "" || date == "" || name == "" {
		return Command{}, invalid("remind requires a kind, a date and a name")
	}
	rt := model.ReminderType(strings.ToLower(kind))
	if !rt.IsValid() {
		return Command{}, invalid("unknown reminder kind %q (birthday, event)", kind)
	}
	if _, err := model.ParseDate(date); err != nil {
		return Command{}, invalid("reminder date must be YYYY-MM-DD, got %q", date)
	}
	cmd.Remind = &RemindArgs{Kind: rt, Date: date, Name: name}
	return cmd, nil
}

func parseCategory(cmd Command, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return Command{}, invalid("cat requires a name and a #hex color")
	}
	color := fields[len(fields)-1]
	if !model.IsHexColor(color) {
		return Command{}, invalid("category color must be #RGB or #RRGGBB, got %q", color)
	}
	cmd.Category = &CategoryArgs{Name: strings.Join(fields[:len(fields)-1], " "), Color: color}
	return cmd, nil
}

func parseText(cmd Command, rest string) (Command, error) {
	if rest == "" {
		return Command{}, invalid("%s requires text", cmd.Type)
	}
	cmd.Text = &TextArgs{Text: rest}
	return cmd, nil
}

func parseSetting(cmd Command, rest string) (Command, error) {
	if rest == "" {
		return Command{}, invalid("%s requires a value", cmd.Type)
	}
	value := rest
	ok := false
	switch cmd.Type {
	case TypeTheme:
		value, ok = strings.ToLower(rest), model.IsTheme(rest)
	case TypeLang:
		value, ok = strings.ToLower(rest), model.IsLanguage(rest)
	case TypeAccent:
		value, ok = model.ResolveAccent(rest)
	case TypeFont:
		value, ok = model.CanonicalFont(rest)
	}
	if !ok {
		return Command{}, invalid("unsupported %s %q", cmd.Type, rest)
	}
	cmd.Setting = &SettingArgs{Value: value}
	return cmd, nil
}

func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx+1:])
}

func invalid(format string, args ...any) *CommandError {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}
