package sentiment

import "testing"

func TestLexiconScorerPositive(t *testing.T) {
	s := NewLexiconScorer()

	got, err := s.Score("公司业绩超预期增长", "营收利好，股价涨停创新高。")
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if got.Sentiment != "positive" {
		t.Fatalf("sentiment = %q, want positive (score %.0f)", got.Sentiment, got.Score)
	}
	if got.Score <= 50 {
		t.Fatalf("positive text score = %.0f, want > 50", got.Score)
	}
	if len(got.Keywords) == 0 {
		t.Fatalf("matched keywords should be returned")
	}
}

func TestLexiconScorerNegative(t *testing.T) {
	s := NewLexiconScorer()

	got, err := s.Score("公司大幅亏损遭调查", "股价跌停，业绩不及预期。")
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if got.Sentiment != "negative" {
		t.Fatalf("sentiment = %q, want negative (score %.0f)", got.Sentiment, got.Score)
	}
	if got.Score >= 50 {
		t.Fatalf("negative text score = %.0f, want < 50", got.Score)
	}
}

func TestLexiconScorerNeutral(t *testing.T) {
	s := NewLexiconScorer()

	got, err := s.Score("公司召开例行会议", "会议审议了日常经营事项。")
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	if got.Sentiment != "neutral" || got.Score != 50 {
		t.Fatalf("neutral text: sentiment=%q score=%.0f, want neutral/50", got.Sentiment, got.Score)
	}
}

func TestLexiconScorerClamped(t *testing.T) {
	s := NewLexiconScorer()

	// 堆满负面词也不能低于 0
	got, _ := s.Score("下跌跌停利空亏损下滑创新低不及预期", "减持处罚调查违约退市诉讼爆雷暴雷")
	if got.Score < 0 || got.Score > 100 {
		t.Fatalf("score out of [0,100]: %.0f", got.Score)
	}
}
