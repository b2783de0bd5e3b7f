package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"compflow/pkg/component"
	"compflow/pkg/component/examples"
	"compflow/pkg/glog"
)

// Config 是这个演示程序自己的配置，和 compflow 核心没有任何关系——核心是一个
// 库，不关心配置文件从哪里来。
type Config struct {
	Glog glog.Config `json:"glog"`
}

func defaultConfig() *Config {
	return &Config{
		Glog: glog.Config{
			Path:         "./logs/compflow-demo.log",
			Level:        "info",
			PrintConsole: true,
			File: glog.FileConfig{
				MaxSize:    100,
				MaxBackups: 10,
				MaxAge:     7,
				Compress:   false,
				LocalTime:  true,
			},
		},
	}
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	profile := flag.String("conf", "./compflow-demo.json", "path to the demo's json config")
	flag.Parse()

	cfg, err := loadConfig(*profile)
	if err != nil {
		panic(err)
	}
	glog.Init(&cfg.Glog)
	defer glog.Stop()

	pong := component.New(component.WithName("pong"), component.WithDirectoryRegistration())

	pongs := 0
	pong.RegisterMessageHandler(component.MessageTypeOf(&examples.Ping{}), component.HandlerFn(func(msg component.Message) {
		pongs++
		glog.Info("pong: received ping", zap.Int("count", pongs))
	}))
	pong.RegisterMessageHandler(component.MessageTypeOf(&examples.Echo{}), component.HandlerFn(func(msg component.Message) {
		e := msg.(*examples.Echo)
		glog.Info("pong: received echo", zap.String("text", e.Payload.Text), zap.Int64("seq", e.Payload.Seq))
	}))

	pong.OnEntry(func() {
		glog.Info("pong: entering loop")
	})
	pong.OnExit(func() {
		glog.Info("pong: exiting loop", zap.Int("total_pongs", pongs))
	})

	if err := pong.Run(component.Async); err != nil {
		panic(err)
	}

	for i := 0; i < 3; i++ {
		_ = pong.PostMessage(&examples.Ping{})
	}

	encoded, _ := examples.EncodeEcho(examples.EchoPayload{Text: "hello", Seq: 1})
	decoded, _ := examples.DecodeEcho(encoded)
	_ = pong.PostMessage(&examples.Echo{Payload: decoded})

	result, err := pong.Call(time.Second, func() interface{} {
		return pongs
	})
	if err != nil {
		glog.Warnf("pong: call failed: %v", err)
	} else {
		glog.Info("pong: call result", zap.Any("pongs_so_far", result))
	}

	time.Sleep(50 * time.Millisecond)
	_ = pong.Stop()
}
