package benchmark

// Runner is the body of a single-goroutine benchmark. Run is called once
// per operation.
type Runner interface {
	Run(ctx *Context)
}

// RunFunc adapts a function to Runner.
type RunFunc func(ctx *Context)

// Run implements Runner.
func (f RunFunc) Run(ctx *Context) { f(ctx) }

// Fixture is implemented by Runners that prepare state before every
// launch and release it afterwards. Neither call is measured.
type Fixture interface {
	Initialize(ctx *Context)
	Cleanup(ctx *Context)
}

// ThreadsRunner is the body of a multi-goroutine benchmark. RunThread is
// called once per operation on every worker goroutine.
type ThreadsRunner interface {
	RunThread(ctx *ContextThreads)
}

// ThreadsRunFunc adapts a function to ThreadsRunner.
type ThreadsRunFunc func(ctx *ContextThreads)

// RunThread implements ThreadsRunner.
func (f ThreadsRunFunc) RunThread(ctx *ContextThreads) { f(ctx) }

// ThreadsFixture prepares a multi-goroutine launch on the launching goroutine.
type ThreadsFixture interface {
	Initialize(ctx *ContextThreads)
	Cleanup(ctx *ContextThreads)
}

// ThreadFixture prepares every worker goroutine before it starts running.
type ThreadFixture interface {
	InitializeThread(ctx *ContextThreads)
	CleanupThread(ctx *ContextThreads)
}

// PCRunner is the body of a producers/consumers benchmark.
type PCRunner interface {
	RunProducer(ctx *ContextPC)
	RunConsumer(ctx *ContextPC)
}

// PCFixture prepares a producers/consumers launch.
type PCFixture interface {
	Initialize(ctx *ContextPC)
	Cleanup(ctx *ContextPC)
}

// ProducerFixture prepares every producer goroutine.
type ProducerFixture interface {
	InitializeProducer(ctx *ContextPC)
	CleanupProducer(ctx *ContextPC)
}

// ConsumerFixture prepares every consumer goroutine.
type ConsumerFixture interface {
	InitializeConsumer(ctx *ContextPC)
	CleanupConsumer(ctx *ContextPC)
}
