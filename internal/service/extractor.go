package service

import (
	"fmt"
	"strings"
)

// ExtractionError 无法从模型回复中取出合法的 JSON 对象
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("response extraction failed: %s", e.Reason)
}

// ExtractJSONObject 从模型的自由文本回复中定位第一个花括号
// 配平的 JSON 对象。会先剥离 Markdown 代码围栏，再按字符扫描，
// 字符串与转义序列内的花括号不参与配平。
func ExtractJSONObject(reply string) (string, error) {
	text := stripCodeFences(reply)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", &ExtractionError{Reason: "no JSON object found in reply"}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", &ExtractionError{Reason: "unbalanced braces in reply"}
}

// stripCodeFences 去掉 ```json ... ``` 一类的围栏标记，保留内部文本
func stripCodeFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
