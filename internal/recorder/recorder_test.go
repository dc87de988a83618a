package recorder_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/san-kum/schotter/internal/recorder"
)

type fakeCapturer struct {
	paths []string
	err   error
}

func (f *fakeCapturer) Capture(path string) error {
	if f.err != nil {
		return f.err
	}
	f.paths = append(f.paths, path)
	return nil
}

var _ = Describe("Recorder", func() {
	var (
		dir  string
		sink *fakeCapturer
		rec  *recorder.Recorder
	)

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "schotter_frames")
		sink = &fakeCapturer{}
		rec = recorder.New(recorder.DefaultOptions(dir), sink, zap.NewNop())
	})

	It("ignores frames while inactive", func() {
		for i := uint64(0); i < 10; i++ {
			Expect(rec.OnFrame(i)).To(Succeed())
		}
		Expect(sink.paths).To(BeEmpty())
		Expect(dir).NotTo(BeADirectory())
	})

	It("creates the output directory on start", func() {
		Expect(rec.Start()).To(Succeed())
		Expect(dir).To(BeADirectory())
		Expect(rec.State()).To(Equal(recorder.State{Active: true, Frame: 0, Dir: dir}))
	})

	It("captures every second frame with zero-padded names", func() {
		Expect(rec.Start()).To(Succeed())
		for i := uint64(1); i <= 6; i++ {
			Expect(rec.OnFrame(i)).To(Succeed())
		}
		Expect(sink.paths).To(Equal([]string{
			filepath.Join(dir, "schotter0001.png"),
			filepath.Join(dir, "schotter0002.png"),
			filepath.Join(dir, "schotter0003.png"),
		}))
	})

	It("stops by itself after the last four-digit frame", func() {
		Expect(rec.Start()).To(Succeed())
		for i := uint64(0); i < 20000; i++ {
			Expect(rec.OnFrame(i)).To(Succeed())
		}

		Expect(rec.Active()).To(BeFalse())
		Expect(rec.State().Frame).To(Equal(9999))
		Expect(sink.paths).To(HaveLen(9999))
		Expect(sink.paths[0]).To(Equal(filepath.Join(dir, "schotter0001.png")))
		Expect(sink.paths[9998]).To(Equal(filepath.Join(dir, "schotter9999.png")))
	})

	It("restarts numbering on every explicit start", func() {
		Expect(rec.Start()).To(Succeed())
		for i := uint64(0); i < 10; i++ {
			Expect(rec.OnFrame(i)).To(Succeed())
		}
		Expect(rec.State().Frame).To(Equal(5))

		Expect(rec.Start()).To(Succeed())
		Expect(rec.State().Frame).To(Equal(0))
		Expect(rec.Active()).To(BeTrue())
	})

	It("reuses a directory that already exists", func() {
		Expect(os.MkdirAll(dir, 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644)).To(Succeed())

		Expect(rec.Start()).To(Succeed())
		Expect(filepath.Join(dir, "keep.txt")).To(BeAnExistingFile())
	})

	It("toggles between recording and stopped", func() {
		Expect(rec.Toggle()).To(Succeed())
		Expect(rec.Active()).To(BeTrue())
		Expect(rec.OnFrame(2)).To(Succeed())

		Expect(rec.Toggle()).To(Succeed())
		Expect(rec.Active()).To(BeFalse())
		Expect(rec.OnFrame(4)).To(Succeed())
		Expect(sink.paths).To(HaveLen(1))
	})

	Context("when the directory cannot be created", func() {
		It("reports the path", func() {
			blocker := filepath.Join(GinkgoT().TempDir(), "file")
			Expect(os.WriteFile(blocker, nil, 0644)).To(Succeed())
			rec = recorder.New(recorder.DefaultOptions(filepath.Join(blocker, "frames")), sink, nil)

			err := rec.Start()
			var recErr *recorder.Error
			Expect(errors.As(err, &recErr)).To(BeTrue())
			Expect(recErr.Path).To(Equal(filepath.Join(blocker, "frames")))
			Expect(rec.Active()).To(BeFalse())
		})
	})

	Context("when a capture fails", func() {
		It("stops recording and surfaces the error", func() {
			boom := errors.New("disk full")
			sink.err = boom
			Expect(rec.Start()).To(Succeed())

			err := rec.OnFrame(0)
			Expect(err).To(MatchError(boom))
			Expect(err.Error()).To(ContainSubstring("schotter0001.png"))
			Expect(rec.Active()).To(BeFalse())
		})
	})

	It("caps the numbering width", func() {
		rec = recorder.New(recorder.Options{Dir: dir, Digits: 19}, sink, nil)
		Expect(rec.Options().Digits).To(Equal(recorder.MaxDigits))
		Expect(rec.MaxFrame()).To(Equal(999999999))
	})

	It("honours custom numbering options", func() {
		opts := recorder.Options{Dir: dir, Prefix: "frame_", Ext: ".jpg", Decimation: 3, Digits: 2}
		rec = recorder.New(opts, sink, nil)
		Expect(rec.MaxFrame()).To(Equal(99))

		Expect(rec.Start()).To(Succeed())
		for i := uint64(0); i < 1000; i++ {
			Expect(rec.OnFrame(i)).To(Succeed())
		}
		Expect(sink.paths).To(HaveLen(99))
		Expect(sink.paths[98]).To(Equal(filepath.Join(dir, "frame_99.jpg")))
	})
})
