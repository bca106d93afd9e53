// Package infrastructure builds the zap logger and routes fx events into it.
package infrastructure

import "context"
import "fmt"
import "strings"

import "go.uber.org/fx"
import "go.uber.org/fx/fxevent"
import "go.uber.org/zap"

import "github.com/neurlang/audiogan/config"

// NewLogger builds a development logger for debug and a production logger at the
// given level otherwise.
func NewLogger(level string) (*zap.Logger, error) {
	var zapConfig zap.Config
	switch level {
	case "debug":
		zapConfig = zap.NewDevelopmentConfig()
	case "warn":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}
	return logger, nil
}

// NewZapLoggerParams holds dependencies for NewZapLogger.
type NewZapLoggerParams struct {
	fx.In
	Cfg *config.Config
	LC  fx.Lifecycle
}

// NewZapLogger provides the logger to fx and syncs it on stop.
func NewZapLogger(params NewZapLoggerParams) (*zap.Logger, error) {
	logger, err := NewLogger(params.Cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	params.LC.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// stderr cannot be synced on some terminals
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

// LoggerModule provides logging infrastructure.
var LoggerModule = fx.Module("logger",
	fx.Provide(NewZapLogger),
)

// FxLoggerAdapter logs fx lifecycle events through zap.
type FxLoggerAdapter struct {
	logger *zap.SugaredLogger
}

// NewFxLoggerAdapter is used with fx.WithLogger.
func NewFxLoggerAdapter(logger *zap.Logger) fxevent.Logger {
	return &FxLoggerAdapter{logger: logger.Sugar()}
}

// LogEvent implements fxevent.Logger.
func (p *FxLoggerAdapter) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		p.logger.Debugf("HOOK OnStart executing: %s, function: %s", e.CallerName, e.FunctionName)
	case *fxevent.OnStartExecuted:
		p.hook("OnStart", e.CallerName, e.FunctionName, e.Err)
	case *fxevent.OnStopExecuting:
		p.logger.Debugf("HOOK OnStop executing: %s, function: %s", e.CallerName, e.FunctionName)
	case *fxevent.OnStopExecuted:
		p.hook("OnStop", e.CallerName, e.FunctionName, e.Err)
	case *fxevent.Supplied:
		p.result("SUPPLY "+e.TypeName, e.Err)
	case *fxevent.Provided:
		p.result("PROVIDE "+strings.Join(e.OutputTypeNames, ", "), e.Err)
	case *fxevent.Invoked:
		p.result("INVOKE "+e.FunctionName, e.Err)
	case *fxevent.Stopping:
		p.logger.Infof("STOPPING: %s", e.Signal)
	case *fxevent.Stopped:
		p.result("STOPPED", e.Err)
	case *fxevent.RollingBack:
		p.logger.Errorf("ROLLING BACK: %v", e.StartErr)
	case *fxevent.RolledBack:
		p.result("ROLLED BACK", e.Err)
	case *fxevent.Started:
		p.result("STARTED", e.Err)
	case *fxevent.LoggerInitialized:
		p.result("LOGGER "+e.ConstructorName, e.Err)
	default:
		p.logger.Debugf("fx event: %T", event)
	}
}

func (p *FxLoggerAdapter) hook(action, caller, function string, err error) {
	if err != nil {
		p.logger.Errorf("HOOK %s failed: %s, function: %s, error: %v", action, caller, function, err)
		return
	}
	p.logger.Debugf("HOOK %s executed: %s, function: %s", action, caller, function)
}

func (p *FxLoggerAdapter) result(action string, err error) {
	if err != nil {
		p.logger.Errorf("%s failed: %v", action, err)
		return
	}
	p.logger.Debug(action)
}
