package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"nutritrack/internal/account"
	"nutritrack/internal/api"
	"nutritrack/internal/appstate"
	"nutritrack/internal/chatbot"
	"nutritrack/internal/config"
	"nutritrack/internal/foods"
	"nutritrack/internal/meals"
	"nutritrack/internal/reports"
	"nutritrack/internal/session"
)

type app struct {
	cfg     *config.Config
	session *session.Store
	store   *appstate.Store
	client  *api.Client

	account *account.Service
	meals   *meals.Service
	foods   *foods.Service
	chatbot *chatbot.Service
	reports *reports.Service
}

func main() {
	cfg := config.Load()

	sess := session.New(cfg.TokenPath)
	store := appstate.NewStore()
	client := api.New(cfg, sess)

	// A 401 anywhere drops the session and ends the run; the next invocation
	// starts at login again.
	client.OnUnauthorized(func() {
		log.Println("session expired, please login again")
	})

	mealsSvc := meals.NewService(client, store, cfg.CacheTTL)
	accountSvc := account.NewService(client, sess, store)

	a := &app{
		cfg:     cfg,
		session: sess,
		store:   store,
		client:  client,
		account: accountSvc,
		meals:   mealsSvc,
		foods:   foods.NewService(client, store, cfg.CacheTTL),
		chatbot: chatbot.NewService(client, store),
		reports: reports.NewService(reports.NewGenerator(), mealsSvc, accountSvc, cfg.ReportsDir),
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	if err := a.run(cmd, args); err != nil {
		log.Fatalf("FATAL %s: %v", cmd, err)
	}
}

func (a *app) run(cmd string, args []string) error {
	ctx := context.Background()

	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		a.account.Logout()
		fmt.Println("logged out")
		return nil
	case "profile":
		return a.cmdProfile(ctx, args)
	case "foods":
		return a.cmdFoods(ctx, args)
	case "meals":
		return a.cmdMeals(ctx, args)
	case "add":
		return a.cmdAdd(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	case "chat":
		return a.cmdChat(ctx, args)
	case "report":
		return a.cmdReport(ctx, args)
	case "status":
		a.cmdStatus()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// requireAuth gates the commands that need a session. Presence only; an
// expired token is discovered by the backend and handled as a 401.
func (a *app) requireAuth() error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not logged in, run: nutritrack login")
	}
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("email and password are required")
	}

	if err := a.account.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	password2 := fs.String("password2", "", "password confirmation")
	fs.Parse(args)

	req := api.RegisterRequest{
		Name:      *name,
		Email:     *email,
		Password:  *password,
		Password2: *password2,
	}
	if err := a.account.Register(ctx, req); err != nil {
		return err
	}
	fmt.Println("account created, you are logged in")
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	age := fs.Int("age", 0, "age in years")
	weight := fs.Float64("weight", 0, "weight in kg")
	height := fs.Float64("height", 0, "height in cm")
	sex := fs.String("sex", "", "M or F")
	activity := fs.String("activity", "", "activity level")
	objective := fs.String("objective", "", "objective")
	fs.Parse(args)

	// No flags: show the profile. Any flag set: full update.
	if *age == 0 && *weight == 0 && *height == 0 && *sex == "" && *activity == "" && *objective == "" {
		profile, err := a.account.Profile(ctx)
		if err != nil {
			return err
		}
		printProfile(profile)
		return nil
	}

	profile, err := a.account.UpdateProfile(ctx, api.UpdateProfileRequest{
		Age:           *age,
		WeightKg:      *weight,
		HeightCm:      *height,
		Sex:           *sex,
		ActivityLevel: *activity,
		Objective:     *objective,
	})
	if err != nil {
		return err
	}
	fmt.Println("profile updated")
	printProfile(profile)
	return nil
}

func (a *app) cmdFoods(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("foods", flag.ExitOnError)
	search := fs.String("search", "", "filter by name (min 2 characters)")
	force := fs.Bool("refresh", false, "bypass the cache")
	fs.Parse(args)

	catalog, err := a.foods.LoadCatalog(ctx, *search, *force)
	if err != nil {
		return err
	}

	for _, f := range catalog {
		fmt.Printf("%6d  %-40s %7.1f kcal  C %5.1fg  P %5.1fg  G %5.1fg\n",
			f.ID, f.Name, f.EnergyKcal, f.CarbsG, f.ProteinG, f.FatG)
	}
	fmt.Printf("%d foods\n", len(catalog))
	return nil
}

func (a *app) cmdMeals(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("meals", flag.ExitOnError)
	date := fs.String("date", "", "date (YYYY-MM-DD, default today)")
	force := fs.Bool("refresh", false, "bypass the cache")
	fs.Parse(args)

	list, err := a.meals.LoadMeals(ctx, *date, *force)
	if err != nil {
		return err
	}

	for _, m := range list {
		fmt.Printf("#%d %s  %.1f kcal (C %.1fg / P %.1fg / G %.1fg)\n",
			m.ID, m.Name, m.TotalKcal, m.TotalCarbsG, m.TotalProteinG, m.TotalFatG)
		for _, it := range m.Items {
			fmt.Printf("    %s %.0fg  %.1f kcal\n", it.FoodName, it.QuantityG, it.TotalKcal)
		}
	}
	fmt.Printf("%d meals\n", len(list))
	return nil
}

// itemFlags collects repeated -item food_id:grams pairs.
type itemFlags []string

func (i *itemFlags) String() string { return strings.Join(*i, ",") }

func (i *itemFlags) Set(v string) error {
	*i = append(*i, v)
	return nil
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "meal name")
	desc := fs.String("desc", "", "meal description")
	var items itemFlags
	fs.Var(&items, "item", "food_id:grams (repeatable)")
	fs.Parse(args)

	if len(items) == 0 {
		return fmt.Errorf("at least one -item food_id:grams is required")
	}

	// The draft needs per-100g values, so the catalog is loaded first (cache
	// permitting).
	catalog, err := a.foods.LoadCatalog(ctx, "", false)
	if err != nil {
		return err
	}
	byID := make(map[int64]api.Food, len(catalog))
	for _, f := range catalog {
		byID[f.ID] = f
	}

	draft := meals.NewDraft(*name, *desc)
	for _, raw := range items {
		foodID, grams, err := parseItem(raw)
		if err != nil {
			return err
		}
		food, ok := byID[foodID]
		if !ok {
			return fmt.Errorf("food %d not found in catalog", foodID)
		}
		item, err := draft.AddItem(food, grams)
		if err != nil {
			return err
		}
		fmt.Printf("+ %s %.0fg  %.1f kcal\n", item.FoodName, item.QuantityG, item.Kcal)
	}

	kcal, carbs, protein, fat := draft.Totals()
	fmt.Printf("draft total: %.1f kcal (C %.1fg / P %.1fg / G %.1fg)\n", kcal, carbs, protein, fat)

	meal, err := a.meals.CreateMeal(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Printf("created meal #%d %s  %.1f kcal\n", meal.ID, meal.Name, meal.TotalKcal)
	return nil
}

func parseItem(raw string) (int64, float64, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid item %q, expected food_id:grams", raw)
	}
	foodID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid food id in %q", raw)
	}
	grams, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grams in %q", raw)
	}
	return foodID, grams, nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: nutritrack delete [-yes] <meal-id>")
	}

	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid meal id %q", fs.Arg(0))
	}

	if !*yes {
		fmt.Printf("delete meal #%d? [y/N] ", id)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := a.meals.DeleteMeal(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted meal #%d\n", id)
	return nil
}

func (a *app) cmdChat(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	newSession := fs.Bool("new", false, "start a new session")
	fs.Parse(args)

	message := strings.Join(fs.Args(), " ")
	createNew := *newSession || !a.cfg.ChatKeepSession
	resp, err := a.chatbot.SendMessage(ctx, message, createNew)
	if err != nil {
		return err
	}

	if resp.AssistantMessage != nil {
		fmt.Println(resp.AssistantMessage.Content)
	}
	fmt.Printf("(session %d)\n", resp.SessionID)
	return nil
}

func (a *app) cmdReport(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("report", flag.ExitOnError)
	date := fs.String("date", "", "date (YYYY-MM-DD, default today)")
	format := fs.String("format", "pdf", "pdf or csv")
	fs.Parse(args)

	path, err := a.reports.Export(ctx, *date, reports.Format(*format))
	if err != nil {
		return err
	}
	fmt.Printf("report written to %s\n", path)
	return nil
}

// cmdStatus logs a summary of the resolved configuration and session. No
// secrets are ever printed.
func (a *app) cmdStatus() {
	log.Println("========== NutriTrack ==========")
	log.Printf("  env          = %s", a.cfg.Env)
	log.Printf("  api_base_url = %s", a.cfg.APIBaseURL)
	log.Printf("  http_timeout = %s", a.cfg.HTTPTimeout)
	log.Printf("  cache_ttl    = %s", a.cfg.CacheTTL)
	if a.cfg.RateLimitRPS > 0 {
		log.Printf("  rate_limit   = %d rps (burst %d)", a.cfg.RateLimitRPS, a.cfg.RateLimitBurst)
	} else {
		log.Printf("  rate_limit   = disabled")
	}
	log.Printf("  reports_dir  = %s", a.cfg.ReportsDir)

	if a.session.IsAuthenticated() {
		log.Printf("  session      = logged in")
		if a.session.IsTokenExpired() {
			log.Printf("  token        = expired (next request will 401)")
		} else {
			log.Printf("  token        = valid")
		}
	} else {
		log.Printf("  session      = not logged in")
	}
	log.Println("================================")
}

func printProfile(p *api.Profile) {
	fmt.Printf("age: %s  weight: %s kg  height: %s cm\n",
		intOrDash(p.Age), floatOrDash(p.WeightKg), floatOrDash(p.HeightCm))
	fmt.Printf("sex: %s  activity: %s  objective: %s\n", p.Sex, p.ActivityLevel, p.Objective)
	if !p.Complete {
		fmt.Println("profile incomplete, set all fields to get daily targets")
		return
	}
	if p.Macros != nil {
		fmt.Printf("daily targets: %d kcal, P %.1fg, C %.1fg, G %.1fg\n",
			p.Macros.DailyKcal, p.Macros.DailyProteinG, p.Macros.DailyCarbsG, p.Macros.DailyFatG)
	}
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func floatOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: nutritrack <command> [flags]

commands:
  login     -email -password
  register  -name -email -password -password2
  logout
  profile   [-age -weight -height -sex -activity -objective]
  foods     [-search term] [-refresh]
  meals     [-date YYYY-MM-DD] [-refresh]
  add       -name <name> -item food_id:grams [...]
  delete    [-yes] <meal-id>
  chat      [-new] <message>
  report    [-date YYYY-MM-DD] [-format pdf|csv]
  status`)
}
