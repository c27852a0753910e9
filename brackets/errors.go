package brackets

import "errors"

var (
	// Ошибки построения сетки
	ErrOutOfRange      = errors.New("value is out of range, must be between 0 and 65536")
	ErrUnsupportedType = errors.New("unsupported bracket type")
	ErrInvalidSeed     = errors.New("invalid seed label")

	// Ошибки матчей
	ErrUnknownWinner       = errors.New("unknown match winner")
	ErrMatchAlreadyDecided = errors.New("match is already decided, undo it first")
	ErrMatchNotDecided     = errors.New("match is not decided")
	ErrSuccessorDecided    = errors.New("next match is already decided")
	ErrMatchNotReady       = errors.New("match is waiting for an earlier result")

	ErrTooLargeToVisualize = errors.New("visualize only supports up to 64 participants")
)
