package loader_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sim8086/loader"
)

var _ = Describe("Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("with a binary file", func() {
			var path string

			BeforeEach(func() {
				path = filepath.Join(tempDir, "listing_0037")
				Expect(os.WriteFile(path, []byte{0x89, 0xd9}, 0644)).To(Succeed())
			})

			It("should load the raw bytes", func() {
				prog, err := loader.Load(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Name).To(Equal(path))
				Expect(prog.Code).To(Equal([]byte{0x89, 0xd9}))
			})
		})

		Context("with an empty file", func() {
			It("should load an empty program", func() {
				path := filepath.Join(tempDir, "empty")
				Expect(os.WriteFile(path, nil, 0644)).To(Succeed())

				prog, err := loader.Load(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Code).To(BeEmpty())
			})
		})

		Context("with a missing file", func() {
			It("should return an error", func() {
				_, err := loader.Load(filepath.Join(tempDir, "missing"))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to open program"))
				Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
			})
		})

		Context("with assembly source", func() {
			It("should refuse to load it", func() {
				path := filepath.Join(tempDir, "listing_0037.asm")
				Expect(os.WriteFile(path, []byte("bits 16\n"), 0644)).To(Succeed())

				_, err := loader.Load(path)
				Expect(err).To(MatchError(ContainSubstring("assembly source")))
			})
		})
	})

	Describe("LoadReader", func() {
		It("should read everything from the reader", func() {
			prog, err := loader.LoadReader("<test>", bytes.NewReader([]byte{0xb1, 0x0c}))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Name).To(Equal("<test>"))
			Expect(prog.Code).To(Equal([]byte{0xb1, 0x0c}))
		})

		It("should reject programs larger than the address space", func() {
			big := bytes.NewReader(make([]byte, loader.MaxProgramSize+1))

			_, err := loader.LoadReader("<big>", big)
			Expect(err).To(MatchError(ContainSubstring("exceeds")))
		})

		It("should accept a program filling the address space", func() {
			full := bytes.NewReader(make([]byte, loader.MaxProgramSize))

			prog, err := loader.LoadReader("<full>", full)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Code).To(HaveLen(loader.MaxProgramSize))
		})
	})
})
