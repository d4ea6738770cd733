package tutor

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a friendly personal-finance tutor for beginners. A learner just answered a quiz question wrong. Be encouraging and concrete. Never shame the learner.`

func buildUserMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Lesson: %s\n", in.Lesson.Title)
	if in.Lesson.Description != "" {
		fmt.Fprintf(&b, "Lesson summary: %s\n", in.Lesson.Description)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n", in.Question.Prompt)
	b.WriteString("Options:\n")
	for i, opt := range in.Question.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	if in.Chosen >= 0 && in.Chosen < len(in.Question.Options) {
		fmt.Fprintf(&b, "\nLearner chose: %s\n", in.Question.Options[in.Chosen])
	}
	fmt.Fprintf(&b, "Correct answer: %s\n", in.Question.CorrectOption())
	if in.Question.Explanation != "" {
		fmt.Fprintf(&b, "Reference explanation: %s\n", in.Question.Explanation)
	}
	if in.Attempt > 1 {
		fmt.Fprintf(&b, "This was attempt %d on this question.\n", in.Attempt)
	}

	b.WriteString(`
Instructions:
1. Explain in 2-4 plain sentences why the chosen option is wrong and why the correct answer is right. Do not repeat the reference explanation word for word.
2. Give one short practical tip the learner can apply to their own money.
3. Plain text only. No markdown, no lists.`)

	return b.String()
}
