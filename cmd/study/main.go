package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"studyforge/application/services"
	"studyforge/domain/questions"
	"studyforge/domain/srs"
	"studyforge/infrastructure/config"
	"studyforge/infrastructure/messaging"
	"studyforge/infrastructure/persistence/jsonfile"
)

var categoryMenu = []string{"kinematics", "dynamics", "energy", "circular_motion"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()
	stdin := bufio.NewScanner(os.Stdin)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	duration := promptDuration(stdin, cfg.SessionLength)
	categories := promptCategories(stdin)

	model, err := srs.NewModel(cfg.Weights)
	if err != nil {
		return err
	}

	// The console session keeps structured logging out of the terminal
	logger := zap.NewNop()
	repo := jsonfile.NewItemRepository(cfg.DataFile, logger)

	service, err := services.NewStudyService(
		model,
		duration,
		repo,
		messaging.NewNoopPublisher(),
		questions.NewGenerator(time.Now().UnixNano()),
		nil,
		logger,
	)
	if err != nil {
		return err
	}

	if err := service.Start(ctx, categories, time.Now()); err != nil {
		return err
	}

	runSession(ctx, stdin, service, duration)
	return nil
}

func runSession(ctx context.Context, stdin *bufio.Scanner, service *services.StudyService, duration time.Duration) {
	start := time.Now()

	for time.Since(start) < duration {
		if service.IsSessionComplete() {
			fmt.Println("\n🎉 All questions have reached the desired stability. Study session complete!")
			return
		}

		now := time.Now()
		q, err := service.NextQuestion(ctx, now)
		if err != nil {
			fmt.Printf("Failed to pick a question: %v\n", err)
			return
		}

		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println(q.Question)
		fmt.Println(strings.Repeat("=", 50))

		if strings.EqualFold(prompt(stdin, "Would you like to see the solution steps? (y/n): "), "y") {
			fmt.Println("\nSolution Steps:")
			for _, step := range q.SolutionSteps {
				fmt.Println(step)
			}
		}

		answer, err := strconv.ParseFloat(prompt(stdin, "\nEnter your answer: "), 64)
		if err != nil {
			fmt.Println("Invalid input. Please enter a number.")
			continue
		}

		correct, expected, err := service.CheckAnswer(q.ItemID, answer)
		if err != nil {
			fmt.Printf("Failed to check answer: %v\n", err)
			continue
		}
		if correct {
			fmt.Printf("Correct! The answer is %v.\n\n", expected)
		} else {
			fmt.Printf("Incorrect. The correct answer is %v.\n\n", expected)
		}

		grade := capitalize(prompt(stdin, "How difficult was this problem? (Again/Hard/Good/Easy): "))
		outcome, err := service.RecordReview(ctx, q.ItemID, grade, time.Now())
		if err != nil {
			fmt.Printf("Review not recorded: %v\n", err)
			continue
		}

		if outcome.Mastered {
			fmt.Printf("✅ %s is mastered.\n", outcome.ItemID)
		}

		elapsed := time.Since(start)
		fmt.Printf("\n📊 Progress: %.1f%% complete\n", float64(elapsed)/float64(duration)*100)
		fmt.Printf("Time remaining: %v\n", (duration - elapsed).Round(time.Second))
	}
}

func promptDuration(stdin *bufio.Scanner, fallback time.Duration) time.Duration {
	minutes, err := strconv.Atoi(prompt(stdin, "Enter study session duration (minutes): "))
	if err != nil || minutes <= 0 {
		fmt.Printf("Using the configured session length of %v.\n", fallback)
		return fallback
	}
	return time.Duration(minutes) * time.Minute
}

func promptCategories(stdin *bufio.Scanner) []string {
	fmt.Println("Select categories (separate by commas):")
	for i, category := range categoryMenu {
		fmt.Printf("%d. %s\n", i+1, category)
	}

	var categories []string
	for _, field := range strings.Split(prompt(stdin, "Your selection: "), ",") {
		field = strings.TrimSpace(field)
		index, err := strconv.Atoi(field)
		if err != nil || index < 1 || index > len(categoryMenu) {
			fmt.Printf("Invalid category: %s. Skipping.\n", field)
			continue
		}
		categories = append(categories, categoryMenu[index-1])
	}

	if len(categories) == 0 {
		fmt.Println("No valid categories selected. Using all categories.")
		categories = append(categories, categoryMenu...)
	}
	return categories
}

func prompt(stdin *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(stdin.Text())
}

// capitalize normalizes grade input the way the prompts present it:
// "again" and "AGAIN" both become "Again".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
