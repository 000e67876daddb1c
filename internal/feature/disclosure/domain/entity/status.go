package entity

import "fmt"

// Status は開示のAI分析状態です。
// PENDING から DONE / ERROR / NO_PDF のいずれかへ一度だけ遷移します。
type Status int

const (
	StatusPending Status = iota
	StatusDone
	StatusError
	StatusNoPDF
)

// AllStatuses は定義済みの全状態です。
var AllStatuses = []Status{StatusPending, StatusDone, StatusError, StatusNoPDF}

// String はDBおよびAPIで使う文字列表現を返します。
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusDone:
		return "DONE"
	case StatusError:
		return "ERROR"
	case StatusNoPDF:
		return "NO_PDF"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsTerminal は分析パイプラインがこれ以上遷移させない状態かを返します。
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPending:
		return false
	case StatusDone, StatusError, StatusNoPDF:
		return true
	default:
		return false
	}
}

// ParseStatus は文字列表現を Status に変換します。未知の値はエラーです。
func ParseStatus(v string) (Status, error) {
	switch v {
	case "PENDING":
		return StatusPending, nil
	case "DONE":
		return StatusDone, nil
	case "ERROR":
		return StatusError, nil
	case "NO_PDF":
		return StatusNoPDF, nil
	default:
		return 0, fmt.Errorf("unknown disclosure status %q", v)
	}
}
