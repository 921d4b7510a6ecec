package bot

import (
	"log"

	"attbot/utils"

	"github.com/robfig/cron/v3"
)

var c *cron.Cron

// startScheduler starts the periodic scan job when scan.cron is configured.
func startScheduler(b *Bot) {
	runScan := func() {
		if b.ScanCfg.ChannelID == "" {
			log.Println("scan.channel_id is not set; skipping scheduled scan.")
			return
		}
		summary, err := b.Scanner.Scan(b.ScanCfg.ChannelID, b.ScanCfg.Limit)
		if err != nil {
			utils.Error("scanner", "scheduled scan", err.Error())
			return
		}
		utils.Info("scanner", "scheduled scan", summary.String())
	}

	if spec := b.ScanCfg.Cron; spec != "" {
		log.Println("Initializing scheduler...")
		c = cron.New()
		if _, err := c.AddFunc(spec, runScan); err != nil {
			log.Fatalf("Could not set up cron job: %v", err)
		}
		c.Start()
		log.Printf("Scan job scheduled with spec %q.", spec)
	}

	// Perform an initial scan on startup based on config.
	if b.ScanCfg.AtStartup {
		go func() {
			log.Println("Performing initial scan on startup...")
			runScan()
		}()
	}
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
