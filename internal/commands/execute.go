package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Move     func(MoveArgs) (Result, error)
	Undo     func() (Result, error)
	Delete   func(TargetArgs) (Result, error)
	Sub      func(SubArgs) (Result, error)
	Tick     func(TickArgs) (Result, error)
	Desc     func(DescArgs) (Result, error)
	Analyze  func(TargetArgs) (Result, error)
	Remind   func(RemindArgs) (Result, error)
	Forget   func(TargetArgs) (Result, error)
	Category func(CategoryArgs) (Result, error)
	Chat     func(TextArgs) (Result, error)
	New      func() (Result, error)
	Write    func(TextArgs) (Result, error)
	Image    func(TextArgs) (Result, error)
	Search   func(TextArgs) (Result, error)
	Theme    func(SettingArgs) (Result, error)
	Accent   func(SettingArgs) (Result, error)
	Lang     func(SettingArgs) (Result, error)
	Font     func(SettingArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return call(cmd.Type, handlers.Add, cmd.Add)
	case TypeMove:
		return call(cmd.Type, handlers.Move, cmd.Move)
	case TypeUndo:
		return callNoArgs(cmd.Type, handlers.Undo)
	case TypeDelete:
		return call(cmd.Type, handlers.Delete, cmd.Target)
	case TypeSub:
		return call(cmd.Type, handlers.Sub, cmd.Sub)
	case TypeTick:
		return call(cmd.Type, handlers.Tick, cmd.Tick)
	case TypeDesc:
		return call(cmd.Type, handlers.Desc, cmd.Desc)
	case TypeAnalyze:
		return call(cmd.Type, handlers.Analyze, cmd.Target)
	case TypeRemind:
		return call(cmd.Type, handlers.Remind, cmd.Remind)
	case TypeForget:
		return call(cmd.Type, handlers.Forget, cmd.Target)
	case TypeCategory:
		return call(cmd.Type, handlers.Category, cmd.Category)
	case TypeChat:
		return call(cmd.Type, handlers.Chat, cmd.Text)
	case TypeNew:
		return callNoArgs(cmd.Type, handlers.New)
	case TypeWrite:
		return call(cmd.Type, handlers.Write, cmd.Text)
	case TypeImage:
		return call(cmd.Type, handlers.Image, cmd.Text)
	case TypeSearch:
		return call(cmd.Type, handlers.Search, cmd.Text)
	case TypeTheme:
		return call(cmd.Type, handlers.Theme, cmd.Setting)
	case TypeAccent:
		return call(cmd.Type, handlers.Accent, cmd.Setting)
	case TypeLang:
		return call(cmd.Type, handlers.Lang, cmd.Setting)
	case TypeFont:
		return call(cmd.Type, handlers.Font, cmd.Setting)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func call[A any](t Type, handler func(A) (Result, error), args *A) (Result, error) {
	if handler == nil {
		return Result{}, missingHandler(t)
	}
	if args == nil {
		return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s arguments missing", t)}
	}
	return handler(*args)
}

func callNoArgs(t Type, handler func() (Result, error)) (Result, error) {
	if handler == nil {
		return Result{}, missingHandler(t)
	}
	return handler()
}

func missingHandler(t Type) *CommandError {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
