package worker

import "github.com/tbukov/mdeco/pkg/logger"

var workerLogger = logger.Get("Worker")

type WorkerStatus int

const (
	Idle WorkerStatus = iota
	Working
	Finished
)

// WorkerTask is the unit of work executed by a worker. Implementations
// typically drain a shared channel until it is closed.
type WorkerTask interface {
	Execute(Worker) error
}

type Worker interface {
	Start()
	Status() WorkerStatus
	Label() string
}

type taskWorker struct {
	label         string
	task          WorkerTask
	currentStatus WorkerStatus
}

func NewWorker(label string, task WorkerTask) *taskWorker {
	return &taskWorker{
		label:         label,
		task:          task,
		currentStatus: Idle,
	}
}

func (worker *taskWorker) Start() {
	workerLogger.Emit(logger.DEBUG, "Starting worker with label %v\n", worker.label)
	worker.currentStatus = Working
	if err := worker.task.Execute(worker); err != nil {
		workerLogger.Emit(logger.ERROR, "Worker with label %v has reported an error(%T): %v\n", worker.label, err, err.Error())
	}

	worker.currentStatus = Finished
	workerLogger.Emit(logger.STOP, "Worker with label %v has stopped\n", worker.label)
}

// Status returns the current status of this worker
func (worker *taskWorker) Status() WorkerStatus {
	return worker.currentStatus
}

// Label returns the label for this worker
func (worker *taskWorker) Label() string {
	return worker.label
}
