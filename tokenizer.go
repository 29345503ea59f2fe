package gridcalc

import (
	"regexp"

	"github.com/xuri/efp"
)

// TokenKind — тип лексемы формулы
type TokenKind int

const (
	TokenFunctionName TokenKind = iota
	TokenCellRef
	TokenOperator
	TokenLiteral
	TokenOpen
	TokenClose
	TokenComma
)

// Token — типизированная лексема формулы
type Token struct {
	Kind    TokenKind
	Text    string
	Numeric bool // для TokenLiteral: число
	Quoted  bool // для TokenLiteral: строка в кавычках
	Prefix  bool // для TokenOperator: унарный префиксный оператор
}

// Ссылка на ячейку: одна или больше заглавных букв, затем одна или больше цифр.
// Внутри операнда ссылки могут идти подряд без разделителя ("A1A3").
var rxCellRef = regexp.MustCompile(`[A-Z]+[0-9]+`)

// Tokenize разбивает формулу на лексемы. Структуру (функции, скобки, аргументы,
// операторы, кавычки) размечает efp; операнды-диапазоны дополнительно режутся на
// ссылки на ячейки и текстовые фрагменты между ними.
// Ссылки внутри закрытых строк в кавычках и имена функций ссылками не считаются.
// Фрагмент перед неожиданной кавычкой efp помечает как Unknown, а незакрытая
// строка доходит до конца формулы операндом: оба режутся на ссылки как обычно.
func Tokenize(formula string) []Token {
	ps := efp.ExcelParser()
	var out []Token
	for _, t := range ps.Parse(formula) {
		switch t.TType {
		case efp.TokenTypeFunction:
			if t.TSubType == efp.TokenSubTypeStart {
				out = append(out, Token{Kind: TokenFunctionName, Text: t.TValue}, Token{Kind: TokenOpen, Text: "("})
			} else {
				out = append(out, Token{Kind: TokenClose, Text: ")"})
			}
		case efp.TokenTypeSubexpression:
			if t.TSubType == efp.TokenSubTypeStart {
				out = append(out, Token{Kind: TokenOpen, Text: "("})
			} else {
				out = append(out, Token{Kind: TokenClose, Text: ")"})
			}
		case efp.TokenTypeArgument:
			out = append(out, Token{Kind: TokenComma, Text: ","})
		case efp.TokenTypeOperatorPrefix:
			out = append(out, Token{Kind: TokenOperator, Text: t.TValue, Prefix: true})
		case efp.TokenTypeOperatorInfix, efp.TokenTypeOperatorPostfix:
			text := t.TValue
			if t.TSubType == efp.TokenSubTypeIntersection {
				// пробел между операндами efp отдаёт пустым оператором
				text = " "
			}
			out = append(out, Token{Kind: TokenOperator, Text: text})
		case efp.TokenTypeUnknown:
			out = append(out, splitOperand(t.TValue)...)
		case efp.TokenTypeOperand:
			switch t.TSubType {
			case efp.TokenSubTypeRange:
				out = append(out, splitOperand(t.TValue)...)
			case efp.TokenSubTypeNumber:
				out = append(out, Token{Kind: TokenLiteral, Text: t.TValue, Numeric: true})
			case efp.TokenSubTypeText:
				out = append(out, Token{Kind: TokenLiteral, Text: t.TValue, Quoted: true})
			default:
				out = append(out, Token{Kind: TokenLiteral, Text: t.TValue})
			}
		}
	}
	return out
}

// splitOperand режет операнд вида "A1A3" или "yes" на ссылки и литералы
func splitOperand(s string) []Token {
	ms := rxCellRef.FindAllStringIndex(s, -1)
	if len(ms) == 0 {
		return []Token{{Kind: TokenLiteral, Text: s}}
	}
	var toks []Token
	last := 0
	for _, m := range ms {
		if m[0] > last {
			toks = append(toks, Token{Kind: TokenLiteral, Text: s[last:m[0]]})
		}
		toks = append(toks, Token{Kind: TokenCellRef, Text: s[m[0]:m[1]]})
		last = m[1]
	}
	if last < len(s) {
		toks = append(toks, Token{Kind: TokenLiteral, Text: s[last:]})
	}
	return toks
}
