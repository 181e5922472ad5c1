// Package main demonstrates scoring a scraped profile with the imposter
// library.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/codeGROOVE-dev/imposter"
)

func main() {
	flag.Parse()

	if len(flag.Args()) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s <twitter-username>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s jack\n", os.Args[0])
		os.Exit(1)
	}

	ctx := context.Background()
	engine := imposter.NewFromArtifact(nil, nil)

	report, err := engine.ScoreTwitterUser(ctx, flag.Args()[0])
	if err != nil {
		log.Fatalf("Failed to score profile: %v", err)
	}

	fmt.Printf("Fake probability: %.2f\n", report.FakeProbability)
	fmt.Printf("Verdict:          %v\n", report.IsFake)
	if snap, ok := report.ProfileInfo.(*imposter.MirrorSnapshot); ok {
		fmt.Printf("Screen name:      %s\n", snap.ScreenName)
		if snap.FollowersCount != nil {
			fmt.Printf("Followers:        %d\n", *snap.FollowersCount)
		}
	}
}
