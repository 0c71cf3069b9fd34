package config_test

import (
	"bytes"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/isagen/config"
	"github.com/sarchlab/isagen/emit"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

var _ = Describe("FromEnv", func() {
	It("should default to info without a report", func() {
		cfg, err := config.FromEnv(env(nil))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
		Expect(cfg.LogLevel).To(Equal(slog.LevelInfo))
		Expect(cfg.Target()).To(Equal(emit.AVR))
	})

	It("should read every variable", func() {
		cfg, err := config.FromEnv(env(map[string]string{
			config.EnvLogLevel:        "debug",
			config.EnvReport:          "true",
			config.EnvRegisterClasses: "ALL_REGISTERS, REGISTER0,,",
		}))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.LogLevel).To(Equal(slog.LevelDebug))
		Expect(cfg.Report).To(BeTrue())
		Expect(cfg.RegisterClasses).To(Equal([]string{"ALL_REGISTERS", "REGISTER0"}))
		Expect(cfg.Target().RegisterClasses).To(Equal([]string{"ALL_REGISTERS", "REGISTER0"}))
	})

	It("should reject a bad level", func() {
		_, err := config.FromEnv(env(map[string]string{config.EnvLogLevel: "loud"}))

		Expect(err).To(MatchError(ContainSubstring(config.EnvLogLevel)))
	})

	It("should reject a bad report flag", func() {
		_, err := config.FromEnv(env(map[string]string{config.EnvReport: "sometimes"}))

		Expect(err).To(MatchError(ContainSubstring(config.EnvReport)))
	})
})

var _ = Describe("ParseLevel", func() {
	DescribeTable("levels",
		func(s string, want slog.Level) {
			level, err := config.ParseLevel(s)
			Expect(err).NotTo(HaveOccurred())
			Expect(level).To(Equal(want))
		},
		Entry("trace", "TRACE", config.LevelTrace),
		Entry("debug", "debug", slog.LevelDebug),
		Entry("warn", "WARN", slog.LevelWarn),
		Entry("error", "error", slog.LevelError),
	)
})

var _ = Describe("NewLogger", func() {
	It("should write JSON lines when not on a terminal", func() {
		var buf bytes.Buffer
		logger := config.NewLogger(&buf, config.LevelTrace)

		config.Trace(logger, "generated", "instruction", "ADD")

		var line map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &line)).To(Succeed())
		Expect(line["level"]).To(Equal("TRACE"))
		Expect(line["msg"]).To(Equal("generated"))
		Expect(line["instruction"]).To(Equal("ADD"))
	})

	It("should drop records below the level", func() {
		var buf bytes.Buffer
		logger := config.NewLogger(&buf, slog.LevelInfo)

		logger.Debug("hidden")
		config.Trace(logger, "hidden")

		Expect(buf.Len()).To(BeZero())
	})
})
