package config_test

import (
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/expmv/internal/config"
	"github.com/san-kum/expmv/internal/krylov"
)

func TestConfigSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Presets", func() {
	It("builds a square operator and a matching vector for every preset", func() {
		for _, name := range config.ListPresets() {
			cfg := config.GetPreset(name)
			Expect(cfg).NotTo(BeNil(), "preset %s", name)

			op, err := cfg.BuildOperator()
			Expect(err).NotTo(HaveOccurred(), "preset %s", name)

			r, c := op.Dims()
			Expect(r).To(Equal(c), "preset %s should be square", name)

			v, err := cfg.BuildInitVector(c)
			Expect(err).NotTo(HaveOccurred(), "preset %s", name)
			Expect(v).To(HaveLen(c))
		}
	})

	It("propagates every preset within its configured tolerance budget", func() {
		for _, name := range config.ListPresets() {
			cfg := config.GetPreset(name)
			op, err := cfg.BuildOperator()
			Expect(err).NotTo(HaveOccurred())

			_, c := op.Dims()
			v, err := cfg.BuildInitVector(c)
			Expect(err).NotTo(HaveOccurred())

			w, err := krylov.Expmv(cfg.T, op, v, cfg.KrylovOptions())
			Expect(err).NotTo(HaveOccurred(), "preset %s", name)
			Expect(w).To(HaveLen(c))
			for _, x := range w {
				Expect(math.IsNaN(x)).To(BeFalse(), "preset %s", name)
			}
		}
	})
})

var _ = Describe("Operator configuration", func() {
	It("rejects a diagonal operator without entries", func() {
		cfg := config.DefaultConfig()
		cfg.Operator = config.OperatorConfig{Type: "diagonal"}
		_, err := cfg.BuildOperator()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a sparse operator without a size", func() {
		cfg := config.DefaultConfig()
		cfg.Operator = config.OperatorConfig{Type: "sparse"}
		_, err := cfg.BuildOperator()
		Expect(err).To(HaveOccurred())
	})

	It("falls back to defaults for an unsized laplacian", func() {
		cfg := config.DefaultConfig()
		cfg.Operator = config.OperatorConfig{Type: "laplacian"}
		op, err := cfg.BuildOperator()
		Expect(err).NotTo(HaveOccurred())
		r, _ := op.Dims()
		Expect(r).To(Equal(config.DefaultSize))
	})
})
