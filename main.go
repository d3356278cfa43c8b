package main

import "github.com/nyxchain/feeestimator/cmd/estimator"

func main() {
	cmd.Execute()
}
