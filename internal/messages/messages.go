// Package messages maps message identifiers to the operator-facing text
// shown by the presentation layer.
package messages

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/scan-to-csv/internal/types"
)

// ID identifies a user-visible message.
type ID int

const (
	Info001 ID = iota + 1 // creating CSV data
	Info002               // CSV output completed

	Err001 // configuration file not found
	Err002 // no destination configured
	Err003 // destination path invalid
	Err004 // scan input empty
	Err005 // temp file could not be written
	Err006 // copy to destination failed
	Err999 // unexpected failure
)

var catalog = map[ID]string{
	Info001: "CSVデータ作成中...",
	Info002: "CSV出力が完了しました。",
	Err001:  "INIファイルが見つかりません。システム管理者までご連絡お願いします。",
	Err002:  "CSV送信先の設定がありません。設定ファイルを確認して下さい。",
	Err003:  "CSV送信先の設定のフォルダパスが正しくありません。設定ファイルを確認して下さい。",
	Err004:  "QRコードの値が入力されていません。",
	Err005:  "CSVファイルの作成に失敗しました。(%s)",
	Err006:  "CSVファイルの送信に失敗しました。送信先を確認して下さい。(%s)",
	Err999:  "異常なエラーが発生しました。システム管理者までご連絡お願いします。",
}

var codes = map[ID]string{
	Info001: "INFO001",
	Info002: "INFO002",
	Err001:  "ERR001",
	Err002:  "ERR002",
	Err003:  "ERR003",
	Err004:  "ERR004",
	Err005:  "ERR005",
	Err006:  "ERR006",
	Err999:  "ERR999",
}

// String returns the message code, e.g. "ERR002".
func (id ID) String() string {
	if c, ok := codes[id]; ok {
		return c
	}
	return fmt.Sprintf("MSG%03d", int(id))
}

// Text returns the message text for id. Format verbs in the text are
// filled from args; unknown identifiers return an empty string.
func Text(id ID, args ...any) string {
	format, ok := catalog[id]
	if !ok {
		return ""
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// ForKind picks the message shown for a failure of the given kind.
func ForKind(kind types.ErrorKind) ID {
	switch kind {
	case types.KindConfigNotFound:
		return Err001
	case types.KindNoDestinationConfigured:
		return Err002
	case types.KindInvalidDestinationPath:
		return Err003
	case types.KindEmptyScanInput:
		return Err004
	case types.KindIOFailure:
		return Err005
	case types.KindCopyFailure:
		return Err006
	default:
		return Err999
	}
}

// ForError returns the operator-facing text for a workflow failure.
// IO and copy failures include the underlying cause.
func ForError(err error) string {
	id := ForKind(types.KindOf(err))
	switch id {
	case Err005, Err006:
		return Text(id, causeOf(err))
	default:
		return Text(id)
	}
}

func causeOf(err error) string {
	var e *types.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}
