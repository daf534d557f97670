package service

import (
	"fmt"
	"strings"

	"github.com/olehsv/kinobot/internal/intent"
)

// BuildPrompt selects the template for the classified intent and fills in
// the conversational context and the combined query.
func BuildPrompt(in intent.Intent, contextLines []string, fullQuery string) string {
	contextText := strings.Join(contextLines, "\n")

	switch in {
	case intent.Movie:
		return fmt.Sprintf(`Ти експерт по фільмах, серіалах та аніме. Відповідай ТОЧНО та КОНКРЕТНО.

Контекст попередньої розмови:
%s

Поточний запит: %s

Вкажи ТОЧНУ інформацію у такому форматі:
🎬 Назва:
📅 Рік випуску:
🌍 Країна:
🎭 Жанр:
⭐ Рейтинг (якщо відомий):
📖 Короткий опис сюжету (2-3 речення):

Якщо це серіал - вкажи кількість сезонів.
Якщо точно не знаєш - так і скажи, не вигадуй.`, contextText, fullQuery)

	case intent.Code:
		return fmt.Sprintf(`Ти експерт-програміст. Відповідай ЧІТКИМ КОДОМ на запит.

Контекст попередньої розмови:
%s

Поточний запит: %s

ВИМОГИ:
1. Надай ПОВНИЙ робочий код
2. Використовуй чітке форматування з `+"```"+`
3. Додай короткі коментарі для пояснення
4. Переконайся що код працює
5. Якщо потрібно - вкажи яку мову програмування використовуєш`, contextText, fullQuery)

	default:
		return fmt.Sprintf(`Ти дружній та допоміжний AI-асистент. Відповідай природньо та зрозуміло.

Контекст попередньої розмови:
%s

Поточний запит: %s

Вимоги до відповіді:
1. Будь природнім та дружнім
2. Відповідай розгорнуто але не занадто довго
3. Використовуй емодзі для кращої читабельності
4. Будь корисним та інформативним`, contextText, fullQuery)
	}
}
