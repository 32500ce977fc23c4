package container

import (
	"time"

	"vision-inspect/config"
	app "vision-inspect/internal/application"
	"vision-inspect/internal/infrastructure/capture"
	"vision-inspect/internal/infrastructure/programstore"
	"vision-inspect/internal/infrastructure/signalio"
	"vision-inspect/internal/logger"
)

type Container struct {
	Engine  *app.Engine
	Sink    *signalio.MemorySink
	Trigger *signalio.Latch
}

// New собирает конвейер: хранилище программ, камеру, приёмник сигналов
// и движок инспекции.
func New(cfg *config.Config, log *logger.Logger) (*Container, error) {
	store := programstore.NewFileStore(cfg.ProgramDir)
	program, err := store.Load(cfg.ProgramName)
	if err != nil {
		return nil, err
	}

	camera := capture.NewSimulatedCamera(cfg.CameraWidth, cfg.CameraHeight)
	sink := signalio.NewMemorySink(log)
	trigger := &signalio.Latch{}

	engine, err := app.NewEngine(program, camera, sink, trigger, log)
	if err != nil {
		camera.Close()
		return nil, err
	}
	engine.SetPulseDuration(time.Duration(cfg.PulseMs) * time.Millisecond)

	return &Container{
		Engine:  engine,
		Sink:    sink,
		Trigger: trigger,
	}, nil
}
