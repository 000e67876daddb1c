package entity

// Kind はタイトルから判定した開示の種類です。
type Kind int

const (
	KindOther Kind = iota
	KindEarnings
	KindBenefits
)

func (k Kind) String() string {
	switch k {
	case KindEarnings:
		return "earnings"
	case KindBenefits:
		return "benefits"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Analysis はモデル出力を正規化した分析結果です。
type Analysis struct {
	Summary      string
	SalesGrowth  string
	ProfitGrowth string
}

// Outcome は1件の開示に対する処理結果で、1回の書き込みで永続化されます。
// Summary が nil の場合、既存の要約は変更しません。
type Outcome struct {
	Status       Status
	Summary      *string
	SalesGrowth  string
	ProfitGrowth string
	Reason       string // ログ用の補足（永続化しない）
}

// DoneOutcome は分析成功時の Outcome です。
func DoneOutcome(a Analysis) Outcome {
	summary := a.Summary
	return Outcome{
		Status:       StatusDone,
		Summary:      &summary,
		SalesGrowth:  a.SalesGrowth,
		ProfitGrowth: a.ProfitGrowth,
	}
}

// NoPDFOutcome はPDFのURLが無い開示の Outcome です。
func NoPDFOutcome() Outcome {
	summary := NoPDFSummary
	return Outcome{Status: StatusNoPDF, Summary: &summary, Reason: "no pdf url"}
}

// ErrorOutcome は分析失敗時の Outcome です。要約や増減率は書き換えません。
func ErrorOutcome(reason string) Outcome {
	return Outcome{Status: StatusError, Reason: reason}
}
