package main

import "github.com/shouni/go-recipe-scraper/cmd"

func main() {
	cmd.Execute()
}
