package genai

import (
	"encoding/json"
	"strings"

	"varejo-ai-web/internal/domain"
)

// ExtractObject はモデルの生テキストから最初の完結した JSON オブジェクトを
// 取り出します。モデルは前後に注釈を付けたり複数の JSON 断片を返すことが
// あるため、全文パースに失敗した場合は波括弧の深さを追跡するスキャンに
// フォールバックします。文字列リテラル内の波括弧はオブジェクト境界として
// 数えません（先頭・末尾の波括弧を切り出すだけの素朴な方式では壊れます）。
func ExtractObject(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, domain.NewPipelineError(domain.ErrAINonJSON, "empty completion text")
	}

	var direct map[string]any
	if err := json.Unmarshal([]byte(trimmed), &direct); err == nil {
		return direct, nil
	}

	span, ok := firstObjectSpan(trimmed)
	if !ok {
		return nil, domain.NewPipelineError(domain.ErrAINonJSON, "no balanced JSON object in completion text")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, domain.WrapPipelineError(domain.ErrAINonJSON, "balanced span is not valid JSON", err)
	}
	return obj, nil
}

// firstObjectSpan は左から右へ走査し、最初に釣り合ったトップレベルの
// {...} 区間を返します。引用符は直前のエスケープされていない \ が無い限り
// 文字列状態を反転させ、文字列内の波括弧は無視します。
func firstObjectSpan(s string) (string, bool) {
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			// オブジェクト開始前の引用符はノイズとして扱い、状態だけ追跡する
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
