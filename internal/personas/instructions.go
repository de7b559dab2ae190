package personas

var instructions = map[Style]string{
	StyleFriend:   "너는 나의 친구야. 반말로 유쾌하게 대답해줘.",
	StylePolite:   "너는 나의 어시스턴트야. 공손하고 정중하게 대답해줘.",
	StyleBusiness: "너는 전문 컨설턴트야. 비즈니스 어투로 간결하게 답변해줘.",
	StylePlayful:  "너는 귀엽고 깜찍한 캐릭터야. 유쾌하고 재미있게 대화해줘.",
}

// DefaultInstructions returns the built-in system prompt for a style.
func DefaultInstructions(style Style) (string, error) {
	text, ok := instructions[style]
	if !ok {
		return "", ErrInvalidStyle
	}
	return text, nil
}
