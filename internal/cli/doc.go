// Package cli реализует инструмент командной строки Cardflow.
//
// # Обзор
//
// CLI работает в двух режимах:
//   - локально: каталог и движок встроены в бинарник (Local),
//     pipeline выполняется без сервера;
//   - удалённо: через HTTP API cardflow-api (Client).
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Cardflow API. Инкапсулирует HTTP-запросы,
// разбор ответов (data, list, error) и обработку ошибок (APIError).
//
//	client := cli.NewClient("http://localhost:8080")
//	exec, err := client.Execute(p)
//
// ## Local
//
// Встроенный каталог и Runner без истории, кэша и событий.
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: cardflow run p.json --json | jq .
//
// ## Commands
//
//   - cards: список определений, cards show
//   - pipeline: new, show, add-card, connect, remove, set
//   - run: выполнить файл локально, на сервере (--remote) или через очередь (--queue)
//   - executions: list, show, latest
//   - watch: повторный запуск по cron или интервалу
//
// Каждая команда создаётся фабричной функцией (NewRunCmd и т.д.),
// принимающей clientFn, localFn и outputFn — замыкания для ленивого
// создания зависимостей после парсинга PersistentFlags.
package cli
