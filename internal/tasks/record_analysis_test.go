package tasks_test

import (
	"context"
	"errors"

	"firstline/internal/config"
	"firstline/internal/db"
	"firstline/internal/models"
	"firstline/internal/tasks"
	"firstline/internal/testhelpers"

	"github.com/hibiken/asynq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const (
	supabaseURL = "https://supabase.test"
	testUserID  = "5f8b5a2e-1111-2222-3333-444455556666"
)

var _ = Describe("HandleRecordAnalysisTask", func() {
	var (
		dbConn    *gorm.DB
		processor *tasks.TaskProcessor
		ctx       context.Context
	)

	newProcessor := func(serviceKey string) *tasks.TaskProcessor {
		cfg, err := config.LoadConfig()
		Expect(err).NotTo(HaveOccurred())
		cfg.SupabaseURL = supabaseURL
		cfg.SupabaseServiceKey = serviceKey

		p := tasks.NewTaskProcessor(dbConn, cfg)
		p.GetAuthClient().UseDefaultClient()
		return p
	}

	BeforeEach(func() {
		ctx = context.Background()

		cfg, err := config.LoadConfig()
		Expect(err).NotTo(HaveOccurred())

		dbConn, err = db.InitDB(cfg.DatabaseURL)
		if err != nil {
			Skip("database not available: " + err.Error())
		}
		Expect(db.Migrate(dbConn)).To(Succeed())

		testhelpers.CleanupDB(dbConn)
		testhelpers.Activate()

		processor = newProcessor("test-service-key")
	})

	AfterEach(func() {
		testhelpers.Deactivate()
	})

	It("re-inserts the record once the account checks out", func() {
		testhelpers.New(supabaseURL).
			Get("/auth/v1/admin/users/"+testUserID).Reply(200).
			BodyString(`{"id": "` + testUserID + `", "email": "writer@example.com"}`).
			Header("Content-Type", "application/json")

		score := 82
		task, err := tasks.NewRecordAnalysisTask(testUserID, "my hook", &score, 612)
		Expect(err).NotTo(HaveOccurred())

		Expect(processor.HandleRecordAnalysisTask(ctx, task)).To(Succeed())
		Expect(testhelpers.IsDone()).To(BeTrue())

		record, err := gorm.G[models.HookAnalysis](dbConn).Where("user_id = ?", testUserID).First(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(record.InputText).To(Equal("my hook"))
		Expect(*record.Score).To(Equal(82))
		Expect(record.UsedTokens).To(Equal(int64(612)))
	})

	It("drops the record when the account no longer exists", func() {
		testhelpers.New(supabaseURL).
			Get("/auth/v1/admin/users/"+testUserID).Reply(404).
			BodyString(`{"msg": "User not found"}`).
			Header("Content-Type", "application/json")

		task, err := tasks.NewRecordAnalysisTask(testUserID, "my hook", nil, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(processor.HandleRecordAnalysisTask(ctx, task)).To(Succeed())

		count, err := gorm.G[models.HookAnalysis](dbConn).Count(ctx, "id")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(0)))
	})

	It("skips the account check without a service key", func() {
		processor = newProcessor("")

		task, err := tasks.NewRecordAnalysisTask(testUserID, "my hook", nil, 100)
		Expect(err).NotTo(HaveOccurred())

		Expect(processor.HandleRecordAnalysisTask(ctx, task)).To(Succeed())

		count, err := gorm.G[models.HookAnalysis](dbConn).Count(ctx, "id")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1)))
	})

	It("refuses to retry a malformed payload", func() {
		task := asynq.NewTask(tasks.TypeTaskRecordAnalysis, []byte("not json"))

		err := processor.HandleRecordAnalysisTask(ctx, task)
		Expect(errors.Is(err, asynq.SkipRetry)).To(BeTrue())
	})

	It("refuses to retry a payload without a user id", func() {
		task, err := tasks.NewRecordAnalysisTask("", "my hook", nil, 0)
		Expect(err).NotTo(HaveOccurred())

		handleErr := processor.HandleRecordAnalysisTask(ctx, task)
		Expect(errors.Is(handleErr, asynq.SkipRetry)).To(BeTrue())
	})
})
