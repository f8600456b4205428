package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические: лексер тотален, код оставлен под информационные сообщения
	LexInfo Code = 1000

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynNestingTooDeep  Code = 2002

	// Вычисление
	EvalInfo        Code = 3000
	EvalStepLimit   Code = 3001
	EvalCanceled    Code = 3002
	EvalCaptureRisk Code = 3003

	// IO
	IOLoadFileError Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:        "Unknown error",
		LexInfo:            "Lexical information",
		SynInfo:            "Syntax information",
		SynUnexpectedToken: "Unexpected token",
		SynNestingTooDeep:  "Expression nesting too deep",
		EvalInfo:           "Evaluation information",
		EvalStepLimit:      "Expression did not normalize within the step limit",
		EvalCanceled:       "Evaluation canceled",
		EvalCaptureRisk:    "Substitution may capture a free variable",
		IOLoadFileError:    "I/O load file error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EVL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
