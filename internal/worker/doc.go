// Package worker выполняет pipeline, поставленные в очередь.
//
// # Обзор
//
// Worker — stateless компонент системы Cardflow. Он потребляет
// сообщения execution.requested из очереди executions.requested и
// выполняет pipeline из payload через runner.Runner, который
// сохраняет историю и публикует execution.completed.
//
// Workers масштабируются горизонтально — несколько экземпляров
// потребляют из одной очереди.
//
//	w := worker.New(worker.Config{
//	    Conn:   mqConn,
//	    Runner: run,
//	    Logger: logger,
//	})
//
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// # Обработка сообщений
//
//  1. Разбор payload {pipeline}
//  2. Проверка pipeline (pipelinefile.Prepare)
//  3. Выполнение через Runner
//
// Некорректный payload или pipeline отправляется в DLQ (mq.Reject).
// Цикл в графе — нормальный итог запуска: сообщение подтверждается.
package worker
