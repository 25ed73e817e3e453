package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"macshift/internal/infrastructure/adapters"
	"macshift/internal/infrastructure/config"
	"macshift/internal/infrastructure/container"
)

func main() {
	// 로거 초기화
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// LOG_LEVEL 환경 변수 설정
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr != "" {
		logLevel, err := logrus.ParseLevel(logLevelStr)
		if err != nil {
			logger.WithError(err).Warnf("Unknown LOG_LEVEL value: %s. Using default Info level.", logLevelStr)
			logger.SetLevel(logrus.InfoLevel)
		} else {
			logger.SetLevel(logLevel)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	root := newRootCommand(logger)
	if err := root.Execute(); err != nil {
		logger.WithError(err).Fatal("Command failed")
	}
}

// buildContainer는 설정 파일을 로드하고 의존성 주입 컨테이너를 만듭니다
func buildContainer(cfgPath string, logger *logrus.Logger) (*container.Container, error) {
	loader := config.NewFileConfigLoader(cfgPath, adapters.NewRealFileSystem())
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	// 설정 파일의 로그 레벨은 LOG_LEVEL 환경 변수가 없을 때만 적용
	if os.Getenv("LOG_LEVEL") == "" && cfg.Log.Level != "" {
		if logLevel, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
			logger.SetLevel(logLevel)
		}
	}

	return container.NewContainer(cfg, logger)
}
