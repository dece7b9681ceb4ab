package events

import (
	"context"
	"sync"
	"time"
)

// taskTimeout максимальное время выполнения одной фоновой задачи
const taskTimeout = 10 * time.Second

// Task фоновая задача-побочный эффект успешной мутации
// (гостевое уведомление, realtime-событие). Выполняется вне транзакции
// и вне пути ответа клиенту
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dispatcher очередь фоновых задач с одним воркером
// Мутация коммитится, затем ставит задачи в очередь: медленный или упавший
// внешний вызов не может ни задержать ответ, ни откатить бронирование.
// Переполненная очередь роняет задачу с записью в лог, а не блокирует мутацию
type Dispatcher struct {
	tasks  chan Task
	logger Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDispatcher создает диспетчер с очередью указанного размера
func NewDispatcher(queueSize int, logger Logger) *Dispatcher {
	return &Dispatcher{
		tasks:  make(chan Task, queueSize),
		logger: logger,
	}
}

// Start запускает воркер обработки очереди
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for task := range d.tasks {
			d.run(task)
		}
	}()
}

// Enqueue ставит задачу в очередь без блокировки
// При переполненной очереди задача отбрасывается с записью в лог
func (d *Dispatcher) Enqueue(task Task) {
	select {
	case d.tasks <- task:
	default:
		d.logger.Error("dispatcher: queue full, dropping task %s", task.Name)
	}
}

// Stop закрывает очередь и ждет завершения оставшихся задач
// Возвращается раньше, если ctx истекает
func (d *Dispatcher) Stop(ctx context.Context) {
	d.stopOnce.Do(func() {
		close(d.tasks)
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("dispatcher: drained and stopped")
	case <-ctx.Done():
		d.logger.Warn("dispatcher: stop timed out, %d tasks may be lost", len(d.tasks))
	}
}

func (d *Dispatcher) run(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := task.Run(ctx); err != nil {
		d.logger.Warn("dispatcher: task %s failed: %v", task.Name, err)
	}
}
