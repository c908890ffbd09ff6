// Package pipeline provides the execution model used to prepare data, train, evaluate and predict.
//
// A pipe is the smallest unit of work. It is built with a shared payload and an optional nickname, and it
// communicates only by reading and writing that payload. A Pipeline is an ordered list of pipe definitions
// sharing one payload: running it runs every pipe in order, synchronously, and stops on the first error.
// Because a Pipeline keeps its definitions, it can be rebound to another payload and rebuilt with fresh pipes.
//
// A System chains the four stages of a run (preparation, modelling, evaluation and prediction) and hands data
// from one stage to the next through the preparation payload:
//
//   - preparation runs its pipeline and becomes the holder of the shared payload;
//   - modelling fits the estimator on the train split and stores it under the model key;
//   - evaluation is rebound to the preparation payload and run;
//   - prediction runs on its own payload, receiving the trained model through the model key.
//
// Stages form a closed set: a System refuses unknown stages, and stages that depend on an earlier preparation,
// before anything runs.
//
// Options plug into a System or a Pipeline through the hooks defined in the model package. The measure and
// drawer packages use them to time each step and render the system topology.
package pipeline
